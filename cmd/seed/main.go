// Package main seeds a development database with one demo branch holding a
// record of every ledger source, and prints a token to query it with.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	appctx "optiretail/internal/core/context"
	"optiretail/internal/domain/auth"
	"optiretail/internal/infrastructure/http/v1/middleware"
	"optiretail/internal/infrastructure/storage/postgres"
	"optiretail/pkg/logger"
)

type seedConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	TimeZone    string `envconfig:"TIME_ZONE" default:"Asia/Colombo"`
	JWTSecret   string `envconfig:"JWT_SECRET"`
	BranchName  string `envconfig:"SEED_BRANCH_NAME" default:"Demo Branch"`
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
		Service:     "optiretail-seed",
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	defer log.Flush()

	var cfg seedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	ctx := logger.WithLogger(context.Background(), log)

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.TimeZone = cfg.TimeZone
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	var branchID int64
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		branchID, err = seedBranch(ctx, txm, cfg.BranchName)
		return err
	})
	if err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Infow("seeding completed successfully", "branch_id", branchID)

	if cfg.JWTSecret != "" {
		jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
		token, expiresAt, err := jwtService.GenerateAccessToken(appctx.UserContext{
			UserID:   "1",
			UserName: "seed",
			Permissions: []string{
				middleware.PermLedgerRead,
				middleware.PermBankingRead,
				middleware.PermDepositConfirm,
			},
		})
		if err != nil {
			log.Fatalw("failed to sign demo token", "error", err)
		}
		log.Infow("demo token issued", "expires_at", expiresAt)
		fmt.Println(token)
	}
}

// seedBranch inserts the branch and its lookups, then one row per ledger source dated today.
func seedBranch(ctx context.Context, txm *postgres.TxManager, name string) (int64, error) {
	q := txm.GetQuerier(ctx)
	now := time.Now()

	insert := func(sql string, args ...any) (int64, error) {
		var id int64
		if err := q.QueryRow(ctx, sql+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("%s: %w", sql, err)
		}
		return id, nil
	}

	branchID, err := insert(`INSERT INTO branches (branch_name) VALUES ($1)`, name)
	if err != nil {
		return 0, err
	}

	userID, err := insert(`INSERT INTO users (username) VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username`, "seed")
	if err != nil {
		return 0, err
	}

	customerID, err := insert(`INSERT INTO customers (name) VALUES ($1)`, "Walk-in Customer")
	if err != nil {
		return 0, err
	}

	// order payment
	orderID, err := insert(`INSERT INTO orders (branch_id, customer_id, total_price) VALUES ($1, $2, $3)`,
		branchID, customerID, "4500.00")
	if err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO invoices (order_id, invoice_number, invoice_type) VALUES ($1, $2, $3)`,
		orderID, fmt.Sprintf("INV-%d", orderID), "factory"); err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO order_payments (order_id, amount, payment_method, payment_date, is_partial, user_id)
		VALUES ($1, $2, 'cash', $3, true, $4)`, orderID, "1500.00", now.Add(-3*time.Hour), userID); err != nil {
		return 0, err
	}

	// channel payment
	doctorID, err := insert(`INSERT INTO doctors (name) VALUES ($1)`, "Dr. Perera")
	if err != nil {
		return 0, err
	}
	patientID, err := insert(`INSERT INTO patients (name) VALUES ($1)`, "Kamal Silva")
	if err != nil {
		return 0, err
	}
	appointmentID, err := insert(`INSERT INTO appointments (branch_id, patient_id, doctor_id, channel_no, amount)
		VALUES ($1, $2, $3, 7, $4)`, branchID, patientID, doctorID, "2000.00")
	if err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO channel_payments (appointment_id, amount, payment_method, payment_date, is_final_payment)
		VALUES ($1, $2, 'card', $3, true)`, appointmentID, "2000.00", now.Add(-2*time.Hour)); err != nil {
		return 0, err
	}

	// soldering payment
	solderingID, err := insert(`INSERT INTO soldering_orders (branch_id, customer_id, total_price) VALUES ($1, $2, $3)`,
		branchID, customerID, "800.00")
	if err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO soldering_invoices (order_id, invoice_number) VALUES ($1, $2)`,
		solderingID, fmt.Sprintf("SOL-%d", solderingID)); err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO soldering_payments (order_id, amount, payment_method, payment_date, is_final_payment)
		VALUES ($1, $2, 'cash', $3, true)`, solderingID, "800.00", now.Add(-time.Hour)); err != nil {
		return 0, err
	}

	// expense
	mainCat, err := insert(`INSERT INTO expense_main_categories (name) VALUES ($1)`, "Utilities")
	if err != nil {
		return 0, err
	}
	subCat, err := insert(`INSERT INTO expense_sub_categories (main_category_id, name) VALUES ($1, $2)`, mainCat, "Electricity")
	if err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO expenses (branch_id, main_category_id, sub_category_id, amount, note, paid_source, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, 'cash', $6, $7)`, branchID, mainCat, subCat, "600.00", "monthly bill", userID, now.Add(-90*time.Minute)); err != nil {
		return 0, err
	}

	// other income
	incomeCat, err := insert(`INSERT INTO other_income_categories (name) VALUES ($1)`, "Scrap sale")
	if err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO other_incomes (branch_id, category_id, amount, note, date) VALUES ($1, $2, $3, $4, $5)`,
		branchID, incomeCat, "250.00", "old frames", now.Add(-30*time.Minute)); err != nil {
		return 0, err
	}

	// safe deposit and the bank deposit it funded
	if _, err := insert(`INSERT INTO safe_transactions (branch_id, transaction_type, amount, reason, created_at)
		VALUES ($1, 'deposit', $2, $3, $4)`, branchID, "3000.00", "evening banking", now.Add(-15*time.Minute)); err != nil {
		return 0, err
	}
	accountID, err := insert(`INSERT INTO bank_accounts (bank_name, account_number) VALUES ($1, $2)`, "Commercial Bank", "1000123456")
	if err != nil {
		return 0, err
	}
	if _, err := insert(`INSERT INTO bank_deposits (branch_id, bank_account_id, amount, deposit_date, user_id, note)
		VALUES ($1, $2, $3, $4, $5, $6)`, branchID, accountID, "3000.00", now, userID, "evening banking"); err != nil {
		return 0, err
	}

	return branchID, nil
}
