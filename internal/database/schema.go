package database

// tableNames in dependency order; drops run in reverse.
var tableNames = []string{
	"artists",
	"users",
	"vinyls",
	"admins",
	"customers",
	"orders",
	"order_lines",
	"reviews",
	"referrals",
}

// createStatements holds the full relational schema. Order totals are not
// maintained by the database; the order repository recomputes them inside
// the writing transaction.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS artists (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		nationality VARCHAR(100) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS vinyls (
		id BIGSERIAL PRIMARY KEY,
		artist_id BIGINT NOT NULL REFERENCES artists(id),
		title VARCHAR(255) NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		release_date DATE NOT NULL,
		cover_image TEXT NOT NULL DEFAULT '',
		genre VARCHAR(100) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS admins (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		department VARCHAR(50) NOT NULL CHECK (department IN ('IT', 'HR', 'Finance'))
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		address VARCHAR(255) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES customers(user_id),
		order_date DATE NOT NULL,
		payment_method VARCHAR(50) NOT NULL
			CHECK (payment_method IN ('ApplePay', 'Klarna', 'CreditCard')),
		total_price NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (total_price >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		vinyl_id BIGINT NOT NULL REFERENCES vinyls(id),
		amount INT NOT NULL CHECK (amount >= 1),
		PRIMARY KEY (order_id, vinyl_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		vinyl_id BIGINT NOT NULL REFERENCES vinyls(id) ON DELETE CASCADE,
		rating INT NOT NULL CHECK (rating BETWEEN 0 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		review_date DATE NOT NULL,
		PRIMARY KEY (user_id, vinyl_id)
	)`,

	`CREATE TABLE IF NOT EXISTS referrals (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		referred_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		count INT NOT NULL DEFAULT 0 CHECK (count >= 0),
		PRIMARY KEY (user_id, referred_user_id)
	)`,
}
