package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/saltastro/gqlsession/pkg/config"
	"github.com/saltastro/gqlsession/pkg/graphql"
	"github.com/saltastro/gqlsession/pkg/session"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not loaded:", err)
	}

	loader := config.NewSessionLoader(
		&config.EnvExpander{},
		&config.RequiredFieldValidator{},
		&config.AuthValidator{},
	)

	cfg, err := loader.Load("demo/upload/session.yaml")
	if err != nil {
		log.Fatal(err)
	}

	s, err := session.FromConfig(cfg.(*config.Session))
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.Open("weather.csv")
	if err != nil {
		log.Fatal(err)
	}
	defer data.Close()

	query := `mutation uploadWeatherData($town: String, $data: Upload) {
    uploadWeatherData(town: $town, data: $data) {
        ok
    }
}`

	// The file variable is declared with a null value; the "0" part of the
	// multipart body fills it in, as described by the file map.
	resp, err := s.Query(context.Background(), query,
		graphql.WithVariables(map[string]interface{}{
			"town": "Sutherland",
			"data": nil,
		}),
		graphql.WithFileMap(map[string][]string{
			"0": {"variables.data"},
		}),
		graphql.WithFile("0", graphql.NewFileEntry("weather.csv", data, "text/csv")),
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
