package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
)

func main() {
	userID := flag.String("user", "550e8400-e29b-41d4-a716-446655440000", "User ID (UUID)")
	email := flag.String("email", "test@example.com", "Email address")
	role := flag.String("role", "RIDER", "Role (RIDER|ADMIN)")
	flag.Parse()

	// Загружаем конфигурацию
	cfg := config.Load()

	// Создаем JWT сервис
	jwtService := auth.NewJWTService(cfg.JWT)

	// Генерируем токен
	token, err := jwtService.GenerateToken(*userID, *email, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT token: %v\n", err)
		os.Exit(1)
	}

	// Выводим токен
	fmt.Printf("\n✅ JWT Token generated successfully!\n\n")
	fmt.Printf("User ID:   %s\n", *userID)
	fmt.Printf("Email:     %s\n", *email)
	fmt.Printf("Role:      %s\n", *role)
	fmt.Printf("\nToken:\n%s\n", token)
	fmt.Printf("\n📋 Copy this for API requests:\n")
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Printf("\n💡 Example curl:\n")
	fmt.Printf("curl -X POST http://localhost:3000/bookings \\\n")
	fmt.Printf("  -H 'Authorization: Bearer %s' \\\n", token)
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\n")
	fmt.Printf("    \"pickup\": \"SkyPort Central\",\n")
	fmt.Printf("    \"dropoff\": \"Harbor Heliport\",\n")
	fmt.Printf("    \"vehicle_class\": \"drone_taxi\",\n")
	fmt.Printf("    \"fare\": 42.50\n")
	fmt.Printf("  }'\n\n")
}
