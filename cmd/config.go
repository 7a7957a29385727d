package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	devConfig "github.com/Daskott/raksha/dev/config"
	"github.com/Daskott/raksha/shared"
	"github.com/Daskott/raksha/utils"
	"github.com/go-playground/validator"
	"github.com/spf13/viper"
)

var validate = validator.New()

// loadConfig reads the config file & RAKSHA_* env vars into a validated shared.Config
func loadConfig() (shared.Config, error) {
	config := viper.New()
	setDefaults(config)

	configFile := cfgFile
	if configFile == "" {
		configName, configDir, err := defaultCfgNameAndDir()
		if err != nil {
			return shared.Config{}, err
		}

		// If config file is not found, create one using defaultConfigValue
		configFile = filepath.Join(configDir, configName)
		if !utils.FileExist(configFile) {
			if err := ioutil.WriteFile(configFile, []byte(defaultConfigValue()), 0600); err != nil {
				return shared.Config{}, err
			}
		}
	}

	config.SetConfigFile(configFile)
	config.SetConfigType("yaml")

	// Secrets can be kept out of the config file, the env var wins when both are set
	config.BindEnv("twilio.authToken", "TWILIO_AUTH_TOKEN")
	config.BindEnv("google.applicationCredentials", "GOOGLE_APPLICATION_CREDENTIALS")

	config.SetEnvPrefix("raksha")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv() // read in environment variables that match

	if err := config.ReadInConfig(); err != nil {
		return shared.Config{}, fmt.Errorf("error reading config file: %v", err)
	}

	result := shared.Config{}
	if err := config.Unmarshal(&result); err != nil {
		return shared.Config{}, fmt.Errorf("error parsing config file %v: %v", config.ConfigFileUsed(), err)
	}

	if err := validateConfig(result); err != nil {
		return shared.Config{}, fmt.Errorf("invalid config in %v: %v", config.ConfigFileUsed(), err)
	}

	return result, nil
}

func setDefaults(config *viper.Viper) {
	config.SetDefault("remote.cookieName", "connect.sid")
	config.SetDefault("remote.timeoutSeconds", 10)
	config.SetDefault("store.dir", "~/.raksha")
	config.SetDefault("location.enabled", true)
	config.SetDefault("location.provider", "static")
	config.SetDefault("listener.port", 3000)
	config.SetDefault("cron.timeZone", "UTC")
}

func validateConfig(config shared.Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	if config.Location.Provider == "geoip" && config.Location.GeoIPURL == "" {
		return fmt.Errorf("'location.geoipUrl' is required when 'location.provider' is geoip")
	}

	storage := config.Google.Storage
	if storage.EnableStoreBackup && (storage.Bucket == "" || storage.StoreBackupSchedule == "") {
		return fmt.Errorf("'google.storage.bucket' & 'google.storage.storeBackupSchedule' are required when backups are enabled")
	}

	return nil
}

func defaultCfgNameAndDir() (configName string, configDir string, err error) {
	configName = ".raksha.yaml"

	// Use home directory for production
	configDir, err = os.UserHomeDir()
	if err != nil {
		return "", "", err
	}

	if isDevEnv {
		configName = ".raksha.dev.yaml"
		configDir, err = os.Getwd()
		if err != nil {
			return "", "", err
		}

		configDir = filepath.Join(configDir, "dev")
		if err = utils.CreateDirIfNotExist(configDir); err != nil {
			return "", "", err
		}
	}

	return configName, configDir, err
}

// defaultConfigValue returns the default content for .raksha.yaml
func defaultConfigValue() string {
	if isDevEnv {
		return devConfig.DEV_YML
	}

	return `# The account service that stores your contacts & settings.
# sessionCookie is the value of the session cookie after you sign in,
# it can also be set with the RAKSHA_REMOTE_SESSIONCOOKIE env var.
remote:
  baseUrl: "http://localhost:5000"
  sessionCookie:

# The last known location is kept in an encrypted db in '<dir>/db'.
# Leave passPhrase empty to keep it in memory only.
store:
  dir: "~/.raksha"
  passPhrase:

# provider is either 'static' (the latitude/longitude below) or 'geoip'
location:
  enabled: true
  provider: "static"
  latitude:
  longitude:
  geoipUrl: "http://ip-api.com/json"

network:
  probeUrl: "https://clients3.google.com/generate_204"

listener:
  port: 3000

cron:
  timeZone: "UTC"
  locationRefreshSchedule: "*/5 * * * *"
  contactsSyncSchedule: "*/30 * * * *"

google:
  storage:
    bucket:
    prefix:
    storeBackupSchedule:
    enableStoreBackup: false
  # Path to the JSON file that contains your service account key,
  # GOOGLE_APPLICATION_CREDENTIALS overrides it
  applicationCredentials:

# TWILIO_AUTH_TOKEN overrides authToken
twilio:
  accountSid:
  authToken:
  messagingServiceSid:
  from:
`
}
