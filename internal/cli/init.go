package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize snaptic configuration",
	Long:  `Interactive wizard to set up the API host, credentials and the local cache.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🚀 Welcome to Snaptic Setup")
	fmt.Println("===========================")
	fmt.Println()

	// Check if config already exists
	configPath := cfgFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	// API configuration
	fmt.Println("\n🌐 API Configuration")
	fmt.Println("---------------------")

	host, err := promptWithRetry(reader, fmt.Sprintf("API host [%s]: ", cfg.API.Host), func(input string) (string, error) {
		if input == "" {
			return cfg.API.Host, nil
		}
		return validateHost(input)
	})
	if err != nil {
		return err
	}
	cfg.API.Host = host

	port, err := promptWithRetry(reader, fmt.Sprintf("API port [%d]: ", cfg.API.Port), func(input string) (string, error) {
		if input == "" {
			return strconv.Itoa(cfg.API.Port), nil
		}
		return validatePort(input)
	})
	if err != nil {
		return err
	}
	cfg.API.Port, _ = strconv.Atoi(port)

	ssl, err := promptWithRetry(reader, "Use HTTPS? (Y/n): ", func(input string) (string, error) {
		switch strings.ToLower(input) {
		case "", "y", "yes":
			return "y", nil
		case "n", "no":
			return "n", nil
		}
		return "", fmt.Errorf("invalid input: %s (enter y/yes/n/no or press Enter for yes)", input)
	})
	if err != nil {
		return err
	}
	cfg.API.UseSSL = ssl == "y"

	// Credentials
	fmt.Println("\n🔑 Credentials")
	fmt.Println("---------------")

	username, err := promptRequired(reader, "Username: ")
	if err != nil {
		return err
	}
	cfg.Auth.Username = username

	password, err := promptRequired(reader, "Password: ")
	if err != nil {
		return err
	}
	cfg.Auth.Password = password

	email, err := promptWithRetry(reader, "Account email: ", validateEmail)
	if err != nil {
		return err
	}
	cfg.Auth.Email = email

	// Test remote authentication
	fmt.Println("\n🔌 Testing API connection...")
	testClient := buildClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, userErr := testClient.User(ctx)
	if userErr != nil {
		fmt.Printf("❌ Failed to authenticate against %s: %v\n", testClient.Host(), userErr)
		fmt.Println("\nPlease check your host and credentials and try again.")
		return userErr
	}
	fmt.Printf("✅ Authenticated as %s%s%s\n", ValueStyle, user.UserName, Reset)

	// Cache configuration
	fmt.Println("\n📊 Cache Configuration")
	fmt.Println("-----------------------")

	provider, err := promptWithRetry(reader, "Cache provider (sqlite/mongodb) [sqlite]: ", validateProvider)
	if err != nil {
		return err
	}
	cfg.Cache.Provider = provider

	if provider == "mongodb" {
		uri, err := promptOptional(reader, "MongoDB URI [mongodb://localhost:27017]: ", "mongodb://localhost:27017")
		if err != nil {
			return err
		}
		cfg.Cache.URI = uri

		dbName, err := promptOptional(reader, "MongoDB database [snaptic]: ", "snaptic")
		if err != nil {
			return err
		}
		cfg.Cache.Database = dbName
	} else {
		uri, err := promptOptional(reader, fmt.Sprintf("SQLite path [%s]: ", cfg.Cache.URI), cfg.Cache.URI)
		if err != nil {
			return err
		}
		cfg.Cache.URI = uri
	}

	// Test cache connection
	fmt.Println("\n🔌 Testing cache connection...")
	testStore, storeErr := newStore(cfg)
	if storeErr != nil {
		return fmt.Errorf("failed to create cache store: %w", storeErr)
	}
	if err := testStore.Connect(ctx); err != nil {
		fmt.Printf("❌ Failed to connect to cache: %v\n", err)
		return err
	}
	defer testStore.Disconnect(ctx)
	fmt.Println("✅ Cache connection successful!")

	// Save configuration
	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✅ Configuration saved to: %s\n", configPath)

	// Summary
	fmt.Println("\n📋 Configuration Summary")
	fmt.Println("========================")
	fmt.Printf("Host: %s\n", cfg.API.Host)
	fmt.Printf("Username: %s\n", cfg.Auth.Username)
	fmt.Printf("Password: %s\n", maskSecret(cfg.Auth.Password))
	fmt.Printf("Cache: %s\n", cfg.Cache.Provider)
	fmt.Println()
	fmt.Println("🎉 Setup complete! Run 'snaptic sync' to pull your notes.")

	return nil
}
