package cli

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// validateHost validates an API host name input
func validateHost(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("host is required")
	}
	if strings.Contains(input, "://") {
		return "", fmt.Errorf("host must not include a scheme (e.g., api.snaptic.com)")
	}
	if strings.Contains(input, "/") {
		return "", fmt.Errorf("host must not include a path")
	}
	return input, nil
}

// validatePort validates a TCP port input
func validatePort(input string) (string, error) {
	input = strings.TrimSpace(input)
	port, err := strconv.Atoi(input)
	if err != nil {
		return "", fmt.Errorf("invalid port: %s (must be a number)", input)
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid port: %d (must be between 1 and 65535)", port)
	}
	return input, nil
}

// validateEmail validates an email address input
func validateEmail(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(input); err != nil {
		return "", fmt.Errorf("invalid email address: %s", input)
	}
	return input, nil
}

// validateCronExpression validates a standard 5-field cron expression
func validateCronExpression(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("cron expression is required")
	}
	if _, err := cron.ParseStandard(input); err != nil {
		return "", fmt.Errorf("invalid cron expression: %s (%v)", input, err)
	}
	return input, nil
}

// validateProvider validates the cache provider selection
func validateProvider(input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "", "sqlite":
		return "sqlite", nil
	case "mongodb":
		return "mongodb", nil
	default:
		return "", fmt.Errorf("invalid provider: %s (must be sqlite or mongodb)", input)
	}
}
