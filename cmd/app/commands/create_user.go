package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	authUseCase "github.com/romaneiohq/romaneio/internal/auth/usecase"
)

// RunCreateUser creates a new user account and issues its first access token.
// When password is empty the command prompts for it interactively. Outputs the
// user ID and plain access token in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase authUseCase.AuthUseCase,
	logger *slog.Logger,
	name string,
	email string,
	password string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new user", slog.String("email", email))

	// Prompt for password when not provided
	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to get password: %w", err)
		}
	}

	input := authUseCase.RegisterInput{
		Name:      name,
		Email:     email,
		Password:  password,
		RequestID: uuid.Must(uuid.NewV7()),
	}

	output, err := useCase.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCreateUserJSON(output, io.Writer)
	} else {
		outputCreateUserText(output, io.Writer)
	}

	logger.Info("user created successfully",
		slog.String("user_id", output.User.ID.String()),
		slog.String("email", output.User.Email),
	)

	return nil
}

// promptForPassword interactively prompts the user for a password.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Enter password (minimum 8 characters): ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimSpace(password)

	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// outputCreateUserText outputs the result in human-readable text format.
func outputCreateUserText(output *authUseCase.AuthOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", output.User.ID.String())
	_, _ = fmt.Fprintf(writer, "Email: %s\n", output.User.Email)
	_, _ = fmt.Fprintf(writer, "Access token: %s\n", output.PlainToken)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The access token is shown only once. Store it securely.")
}

// outputCreateUserJSON outputs the result in JSON format for machine consumption.
func outputCreateUserJSON(output *authUseCase.AuthOutput, writer io.Writer) {
	result := map[string]string{
		"user_id":      output.User.ID.String(),
		"email":        output.User.Email,
		"access_token": output.PlainToken,
		"expires_at":   output.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
