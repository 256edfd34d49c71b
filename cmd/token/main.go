// Command token mints an access token for local development, signed with
// the JWT settings from the environment.
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/config"
	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/worktime-backend-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token")
	role := flag.String("role", string(user.RoleEmployee), "role: owner, manager or employee")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}
	if !slices.Contains(user.RoleValues, *role) {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	// Only the JWT settings are needed; skip full config validation.
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is not set")
		os.Exit(1)
	}
	expiration := os.Getenv("JWT_ACCESS_EXPIRATION_TIME")
	if expiration == "" {
		expiration = config.DefaultAccessExpiration
	}

	svc, err := jwt.NewJWTService(secret, expiration)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, expiresAt, err := svc.GenerateAccessToken(*userID, user.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to sign token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
