// Package env loads .env files so provider keys (and GCOP_* config
// overrides) can live next to the project instead of the shell profile.
package env

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadFile loads each of files that exists, typically the .env of the
// working directory. Variables already set in the environment win.
// It returns the files that were actually loaded.
func LoadFile(files ...string) []string {
	var loaded []string
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			continue
		}
		loaded = append(loaded, file)
	}
	return loaded
}

func GetString(key string) string {
	return os.Getenv(key)
}
