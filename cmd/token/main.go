// Command token emite un bearer token de desarrollo firmado con JWT_SECRET.
//
//	go run ./cmd/token -pharmacy <id> -user <id> -role VENDEDOR
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-farmaceutico/pkg/config"
	"github.com/jhoicas/crm-farmaceutico/pkg/jwt"
)

func main() {
	pharmacyID := flag.String("pharmacy", "", "ID de la farmacia (obligatorio)")
	userID := flag.String("user", "", "ID del vendedor (por defecto uno aleatorio)")
	role := flag.String("role", "VENDEDOR", "ADMIN | GERENTE | FARMACEUTICO | VENDEDOR")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *pharmacyID == "" {
		fmt.Fprintln(os.Stderr, "falta -pharmacy")
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.New().String()
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *pharmacyID, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
