package config

// DEV_YML is written to ./dev/.raksha.dev.yaml the first time raksha runs with --dev
const DEV_YML = `
remote:
  baseUrl: "http://localhost:5000"
  cookieName: "connect.sid"
  sessionCookie:
  timeoutSeconds: 10

store:
  dir: "./dev"
  passPhrase: passphrase

location:
  enabled: true
  provider: "static"
  latitude: 18.5204
  longitude: 73.8567
  accuracy: 25

network:
  probeUrl: "https://clients3.google.com/generate_204"

listener:
  port: 3000

cron:
  timeZone: "Asia/Kolkata"
  locationRefreshSchedule: "*/5 * * * *"
  contactsSyncSchedule: "*/30 * * * *"

google:
  storage:
    bucket: "raksha"
    prefix: "raksha-dev"
    storeBackupSchedule: "0 */6 * * *"
    enableStoreBackup: false
  applicationCredentials:

twilio:
  accountSid:
  authToken:
  messagingServiceSid:
  from:
`
