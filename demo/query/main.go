package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/joho/godotenv"

	"github.com/saltastro/gqlsession/pkg/config"
	"github.com/saltastro/gqlsession/pkg/graphql"
	"github.com/saltastro/gqlsession/pkg/session"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not loaded:", err)
	}

	// Load the YAML config
	loader := config.NewSessionLoader(
		&config.EnvExpander{},
		&config.RequiredFieldValidator{},
		&config.AuthValidator{},
	)

	cfg, err := loader.Load("demo/query/session.yaml")
	if err != nil {
		log.Fatal(err)
	}

	// Create a session from config
	s, err := session.FromConfig(cfg.(*config.Session))
	if err != nil {
		log.Fatal(err)
	}

	query := `query hello($name: String!) {
    greet(name: $name) {
        response
    }
}`

	resp, err := s.Query(context.Background(), query,
		graphql.WithVariable("name", "John Doe"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Println(string(body))
}
