package shared

type Config struct {
	Remote   RemoteConfig   `mapstructure:"remote"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Store    StoreConfig    `mapstructure:"store"`
	Location LocationConfig `mapstructure:"location"`
	Network  NetworkConfig  `mapstructure:"network"`
	Listener ListenerConfig `mapstructure:"listener"`
	Cron     CronConfig     `mapstructure:"cron"`
	Google   GoogleConfig   `mapstructure:"google"`
}

type RemoteConfig struct {
	BaseURL        string `mapstructure:"baseUrl" validate:"required,url"`
	SessionCookie  string `mapstructure:"sessionCookie"`
	CookieName     string `mapstructure:"cookieName"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" validate:"min=0"`
}

type TwilioConfig struct {
	AccountSid          string `mapstructure:"accountSid"`
	AuthToken           string `mapstructure:"authToken"`
	MessagingServiceSid string `mapstructure:"messagingServiceSid"`
	From                string `mapstructure:"from"`
}

type StoreConfig struct {
	Dir        string `mapstructure:"dir" validate:"required"`
	PassPhrase string `mapstructure:"passPhrase"`
}

type LocationConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Provider  string   `mapstructure:"provider" validate:"required,oneof=static geoip"`
	Latitude  float64  `mapstructure:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `mapstructure:"longitude" validate:"min=-180,max=180"`
	Accuracy  *float64 `mapstructure:"accuracy"`
	GeoIPURL  string   `mapstructure:"geoipUrl" validate:"omitempty,url"`
}

type NetworkConfig struct {
	ProbeURL string `mapstructure:"probeUrl" validate:"omitempty,url"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"min=0,max=65535"`
}

type CronConfig struct {
	TimeZone                string `mapstructure:"timeZone" validate:"required"`
	LocationRefreshSchedule string `mapstructure:"locationRefreshSchedule"`
	ContactsSyncSchedule    string `mapstructure:"contactsSyncSchedule"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Bucket              string `mapstructure:"bucket"`
	Prefix              string `mapstructure:"prefix"`
	StoreBackupSchedule string `mapstructure:"storeBackupSchedule"`
	EnableStoreBackup   bool   `mapstructure:"enableStoreBackup"`
}
