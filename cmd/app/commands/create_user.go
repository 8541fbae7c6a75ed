package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	authDTO "github.com/allisson/legacyvault/internal/auth/http/dto"
	authUseCase "github.com/allisson/legacyvault/internal/auth/usecase"
	customValidation "github.com/allisson/legacyvault/internal/validation"
)

// RunCreateUser registers an email and password account. When password is empty it is
// read from streams.Reader as a single line.
func RunCreateUser(
	ctx context.Context,
	useCase authUseCase.UseCase,
	logger *slog.Logger,
	streams IOTuple,
	email, password, format string,
) error {
	if password == "" {
		var err error
		if password, err = promptForPassword(streams); err != nil {
			return err
		}
	}

	req := authDTO.EmailSignupRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return customValidation.WrapValidationError(err)
	}

	user, err := useCase.EmailSignup(ctx, authUseCase.SignupInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user created", slog.Int64("user_id", user.ID))

	result := map[string]any{"user_id": user.ID, "user_code": user.UserCode}
	return writeOutput(streams.Writer, format, result, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "User created successfully!")
		_, _ = fmt.Fprintf(w, "User ID: %d\n", user.ID)
		_, _ = fmt.Fprintf(w, "User code: %s\n", user.UserCode)
	})
}

func promptForPassword(streams IOTuple) (string, error) {
	_, _ = fmt.Fprint(streams.Writer, "Enter password: ")

	line, err := bufio.NewReader(streams.Reader).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(streams.Writer)

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}
