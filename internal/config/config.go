package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type Game struct {
	// GuessSchema is "robber" or "robber_thief".
	GuessSchema string

	// ShuffleSeed pins role shuffling for reproducible runs. 0 seeds
	// from the clock.
	ShuffleSeed int64

	// RevealRoles controls whether NEW_TURN broadcasts the whole role
	// map (source-compatible) or only each client's own role.
	RevealRoles bool
}

type Config struct {
	HTTP HTTPServer
	Game Game
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP: *newHTTP(),
		Game: *newGame(),
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg)
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newGame() *Game {
	seed, err := strconv.ParseInt(getenv("SHUFFLE_SEED", "0"), 10, 64)
	if err != nil {
		log.Fatalf("%s bad SHUFFLE_SEED : %v", logtag, err)
	}
	reveal, err := strconv.ParseBool(getenv("REVEAL_ROLES", "true"))
	if err != nil {
		log.Fatalf("%s bad REVEAL_ROLES : %v", logtag, err)
	}

	return &Game{
		GuessSchema: getenv("GUESS_SCHEMA", "robber_thief"),
		ShuffleSeed: seed,
		RevealRoles: reveal,
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}
