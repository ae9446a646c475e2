// Package main is the entry point for the book-club library API server.
// It wires together configuration, the MongoDB connection, and the HTTP router.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bookclubhq/library-api/internal/data"
	"github.com/bookclubhq/library-api/internal/mailer"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// appVersion is the current version of the API, shown in logs.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup via
// command-line flags. It is built once in main and passed explicitly to every
// component that needs it; nothing reads the environment after startup.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on (default 4000)
	environment string // Runtime environment: development, staging, or production
	db          struct {
		uri      string // MongoDB connection string
		database string // Database holding the books/readers/users/lendings collections
	}
	auth struct {
		accessSecret  string // HMAC secret for short-lived access tokens
		refreshSecret string // HMAC secret for long-lived refresh tokens
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string // From address on outgoing reminder mail
	}
	cors struct {
		trustedOrigins []string // Origins allowed to call the API from a browser
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig  // Server configuration loaded from flags
	logger *slog.Logger  // Structured logger that writes to stdout
	models data.Models   // Collection model layer
	mailer mailer.Mailer // Outbound SMTP for overdue reminders
}

// main parses flags, opens the database, wires up dependencies, and starts
// the HTTP server.
func main() {
	var settings serverConfig

	flag.IntVar(&settings.port, "port", 4000, "Server port")
	flag.StringVar(&settings.environment, "env", "development", "Environment(development|staging|production)")
	flag.StringVar(&settings.db.uri, "db-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	flag.StringVar(&settings.db.database, "db-name", "bookclub", "MongoDB database name")
	flag.StringVar(&settings.auth.accessSecret, "access-token-secret", "", "Access token signing secret")
	flag.StringVar(&settings.auth.refreshSecret, "refresh-token-secret", "", "Refresh token signing secret")
	flag.StringVar(&settings.smtp.host, "smtp-host", "smtp.gmail.com", "SMTP host")
	flag.IntVar(&settings.smtp.port, "smtp-port", 587, "SMTP port")
	flag.StringVar(&settings.smtp.username, "smtp-username", "", "SMTP username")
	flag.StringVar(&settings.smtp.password, "smtp-password", "", "SMTP password")
	flag.StringVar(&settings.smtp.sender, "smtp-sender", "Book Club Library <library@bookclub.example>", "SMTP sender")
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(value string) error {
		settings.cors.trustedOrigins = strings.Fields(value)
		return nil
	})

	flag.Parse()

	// Create a structured logger that writes human-readable text to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if settings.auth.accessSecret == "" || settings.auth.refreshSecret == "" {
		logger.Error("access-token-secret and refresh-token-secret must be set")
		os.Exit(1)
	}

	// Open and verify the database connection.
	client, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	logger.Info("database connection established", "database", settings.db.database)

	models := data.NewModels(client.Database(settings.db.database))

	// The unique indexes back the ISBN and email uniqueness rules; refuse to
	// start without them.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = models.EnsureIndexes(ctx)
	cancel()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
		models: models,
		mailer: mailer.New(
			settings.smtp.host,
			settings.smtp.port,
			settings.smtp.username,
			settings.smtp.password,
			settings.smtp.sender,
		),
	}

	err = appInstance.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// openDB connects to MongoDB using the URI stored in settings, then pings the
// server with a 5-second timeout to confirm it is reachable. Returns the
// client on success, or an error if the connection cannot be established.
func openDB(settings serverConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Connect only validates options and starts the connection pool; the ping
	// below performs a real round-trip.
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(settings.db.uri))
	if err != nil {
		return nil, err
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	return client, nil
}
