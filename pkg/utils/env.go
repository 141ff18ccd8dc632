package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig reads the optional .env file at path and wires viper to the
// process environment. Missing .env is not an error; containers usually
// inject configuration through real environment variables.
func LoadConfig(path string) {
	envFile := filepath.Join(path, ".env")
	if err := godotenv.Load(envFile); err != nil {
		logrus.Debugf("[CONFIG] no .env file loaded from %s: %v", envFile, err)
	}

	viper.AutomaticEnv()
}
