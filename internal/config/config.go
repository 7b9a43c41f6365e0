package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	AdminKey    string // shared key exchanged for an admin JWT
	DataDir     string // directory of trip CSV files
	RegionsPath string // GeoJSON boundary file
	ChunkSize   int    // rows per load chunk
}

// Load reads configuration from the environment, with an optional .env file
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/trips.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	adminKey := os.Getenv("ADMIN_KEY")
	if adminKey == "" {
		adminKey = "admin"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data/csv"
	}

	regionsPath := os.Getenv("REGIONS_PATH")
	if regionsPath == "" {
		regionsPath = "./data/community_areas.geojson"
	}

	chunkSize := 5000
	if v := os.Getenv("CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			chunkSize = n
		}
	}

	return &Config{
		Port:        port,
		DBPath:      dbPath,
		JWTSecret:   jwtSecret,
		AdminKey:    adminKey,
		DataDir:     dataDir,
		RegionsPath: regionsPath,
		ChunkSize:   chunkSize,
	}
}
