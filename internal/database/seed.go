package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinylvault/vinylvault/internal/domain"
)

const (
	seededCustomers = 40
	demoPassword    = "password123"
)

type seedArtist struct {
	name        string
	nationality string
}

type seedVinyl struct {
	artist int // index into seedArtists
	title  string
	price  float64
	year   int
	genre  string
}

var seedArtists = []seedArtist{
	{"The Velvet Sundown", "British"},
	{"Mina Okafor", "Nigerian"},
	{"Cassette Future", "Swedish"},
	{"Los Faros", "Mexican"},
	{"Juniper Hale", "American"},
	{"Kleine Nacht", "German"},
	{"Sora Tanaka", "Japanese"},
	{"The Pale Riders", "Australian"},
}

var seedVinyls = []seedVinyl{
	{0, "Static Bloom", 24.99, 2019, "Indie Rock"},
	{0, "Half-Light Motel", 27.50, 2022, "Indie Rock"},
	{1, "Lagos Frequencies", 31.00, 2020, "Afrobeat"},
	{1, "Harmattan", 29.99, 2023, "Afrobeat"},
	{2, "Neon Archive", 22.49, 2018, "Synthwave"},
	{2, "Midnight Terminal", 25.00, 2021, "Synthwave"},
	{3, "Calle Norte", 19.99, 2017, "Latin"},
	{3, "Marea Alta", 23.75, 2022, "Latin"},
	{4, "Orchard Songs", 26.50, 2016, "Folk"},
	{4, "Winter Provisions", 28.00, 2020, "Folk"},
	{5, "Autobahnlichter", 33.25, 2019, "Electronic"},
	{6, "Paper Cranes", 30.00, 2021, "City Pop"},
	{6, "Shibuya Rainfall", 34.50, 2023, "City Pop"},
	{7, "Dust and Chrome", 21.99, 2015, "Hard Rock"},
	{7, "Southern Cross", 24.00, 2018, "Hard Rock"},
}

var seedDepartments = []string{
	domain.DepartmentIT,
	domain.DepartmentHR,
	domain.DepartmentFinance,
}

var seedPayments = []string{
	domain.PaymentApplePay,
	domain.PaymentKlarna,
	domain.PaymentCreditCard,
}

// seed fills the schema with the demo data set: a fixed catalogue, a few
// well-known login accounts and a randomized population of customers,
// orders, reviews and referral credits.
func (m *Manager) seed(ctx context.Context) error {
	faker := gofakeit.New(0)

	// bcrypt.MinCost keeps bulk seeding fast; real signups would use the
	// default cost.
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	vinylIDs, err := seedCatalogue(ctx, tx)
	if err != nil {
		return err
	}

	userIDs, err := seedUsers(ctx, tx, faker, string(hash))
	if err != nil {
		return err
	}

	if err := seedOrders(ctx, tx, faker, userIDs, vinylIDs); err != nil {
		return err
	}
	if err := seedReviews(ctx, tx, faker, userIDs, vinylIDs); err != nil {
		return err
	}
	if err := seedReferrals(ctx, tx, faker, userIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"vinyls": len(vinylIDs),
		"users":  len(userIDs),
	}).Info("Relational store seeded")
	return nil
}

func seedCatalogue(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	artistIDs := make([]int64, len(seedArtists))
	for i, artist := range seedArtists {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO artists (name, nationality) VALUES ($1, $2) RETURNING id
		`, artist.name, artist.nationality).Scan(&artistIDs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to seed artist: %w", err)
		}
	}

	vinylIDs := make([]int64, len(seedVinyls))
	for i, vinyl := range seedVinyls {
		release := time.Date(vinyl.year, time.Month(1+i%12), 1, 0, 0, 0, 0, time.UTC)
		cover := fmt.Sprintf("/covers/%d.jpg", i+1)
		err := tx.QueryRowContext(ctx, `
			INSERT INTO vinyls (artist_id, title, price, release_date, cover_image, genre)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, artistIDs[vinyl.artist], vinyl.title, vinyl.price, release, cover, vinyl.genre).Scan(&vinylIDs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to seed vinyl: %w", err)
		}
	}
	return vinylIDs, nil
}

// seedUsers creates the fixed demo logins (one admin per department, one
// customer) plus a random customer population. It returns the customer user
// ids; admins place no orders or reviews.
func seedUsers(ctx context.Context, tx *sql.Tx, faker *gofakeit.Faker, hash string) ([]int64, error) {
	admins := []struct {
		name       string
		email      string
		department string
	}{
		{"Store Admin", "admin@vinylvault.test", domain.DepartmentIT},
		{"Payroll Admin", "hr@vinylvault.test", domain.DepartmentHR},
		{"Ledger Admin", "finance@vinylvault.test", domain.DepartmentFinance},
	}
	for _, admin := range admins {
		var adminID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id
		`, admin.name, admin.email, hash).Scan(&adminID)
		if err != nil {
			return nil, fmt.Errorf("failed to seed admin user: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO admins (user_id, department) VALUES ($1, $2)
		`, adminID, admin.department)
		if err != nil {
			return nil, fmt.Errorf("failed to seed admin role: %w", err)
		}
	}

	customerIDs := make([]int64, 0, seededCustomers+1)

	var demoCustomerID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id
	`, "Demo Customer", "customer@vinylvault.test", hash).Scan(&demoCustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo customer: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO customers (user_id, address) VALUES ($1, $2)
	`, demoCustomerID, "1 Demo Street, Example City")
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo customer role: %w", err)
	}
	customerIDs = append(customerIDs, demoCustomerID)

	for i := 0; i < seededCustomers; i++ {
		email := fmt.Sprintf("%s.%d@%s", faker.Username(), i, faker.DomainName())
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id
		`, faker.Name(), email, hash).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to seed user: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO customers (user_id, address) VALUES ($1, $2)
		`, id, faker.Address().Address)
		if err != nil {
			return nil, fmt.Errorf("failed to seed customer role: %w", err)
		}
		customerIDs = append(customerIDs, id)
	}

	return customerIDs, nil
}

func seedOrders(ctx context.Context, tx *sql.Tx, faker *gofakeit.Faker, userIDs, vinylIDs []int64) error {
	for _, userID := range userIDs {
		orders := faker.Number(0, 3)
		for o := 0; o < orders; o++ {
			orderDate := faker.DateRange(
				time.Now().AddDate(-1, 0, 0),
				time.Now(),
			)
			payment := seedPayments[faker.Number(0, len(seedPayments)-1)]

			var orderID int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO orders (user_id, order_date, payment_method, total_price)
				VALUES ($1, $2, $3, 0)
				RETURNING id
			`, userID, orderDate, payment).Scan(&orderID)
			if err != nil {
				return fmt.Errorf("failed to seed order: %w", err)
			}

			for _, vinylID := range pickVinyls(faker, vinylIDs, faker.Number(1, 3)) {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO order_lines (order_id, vinyl_id, amount)
					VALUES ($1, $2, $3)
				`, orderID, vinylID, faker.Number(1, 2))
				if err != nil {
					return fmt.Errorf("failed to seed order line: %w", err)
				}
			}

			_, err = tx.ExecContext(ctx, `
				UPDATE orders
				SET total_price = (
					SELECT COALESCE(SUM(v.price * ol.amount), 0)
					FROM order_lines ol
					JOIN vinyls v ON ol.vinyl_id = v.id
					WHERE ol.order_id = $1
				)
				WHERE id = $1
			`, orderID)
			if err != nil {
				return fmt.Errorf("failed to total seeded order: %w", err)
			}
		}
	}
	return nil
}

func seedReviews(ctx context.Context, tx *sql.Tx, faker *gofakeit.Faker, userIDs, vinylIDs []int64) error {
	for _, userID := range userIDs {
		// Distinct vinyls per user keeps the (user, vinyl) key unique.
		for _, vinylID := range pickVinyls(faker, vinylIDs, faker.Number(0, 4)) {
			reviewDate := faker.DateRange(
				time.Now().AddDate(-5, 0, 0),
				time.Now(),
			)
			_, err := tx.ExecContext(ctx, `
				INSERT INTO reviews (user_id, vinyl_id, rating, comment, review_date)
				VALUES ($1, $2, $3, $4, $5)
			`, userID, vinylID, faker.Number(0, 5), faker.Sentence(8), reviewDate)
			if err != nil {
				return fmt.Errorf("failed to seed review: %w", err)
			}
		}
	}
	return nil
}

func seedReferrals(ctx context.Context, tx *sql.Tx, faker *gofakeit.Faker, userIDs []int64) error {
	if len(userIDs) < 2 {
		return nil
	}
	for i := 0; i < len(userIDs)/4; i++ {
		referrer := userIDs[faker.Number(0, len(userIDs)-1)]
		referred := userIDs[faker.Number(0, len(userIDs)-1)]
		if referrer == referred {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO referrals (user_id, referred_user_id, count)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, referred_user_id) DO NOTHING
		`, referrer, referred, faker.Number(1, 3))
		if err != nil {
			return fmt.Errorf("failed to seed referral: %w", err)
		}
	}
	return nil
}

// pickVinyls draws n distinct vinyl ids.
func pickVinyls(faker *gofakeit.Faker, vinylIDs []int64, n int) []int64 {
	if n > len(vinylIDs) {
		n = len(vinylIDs)
	}
	shuffled := make([]int64, len(vinylIDs))
	copy(shuffled, vinylIDs)
	faker.ShuffleAnySlice(shuffled)
	return shuffled[:n]
}
