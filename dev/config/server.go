package config

const SERVER_YML = `
rolodex:
  cron:
    timeZone: "America/Toronto"
  listener:
    port: 3000

database:
  driver: sqlite
  sqlite:
    passPhrase: passphrase
    dir:
  postgres:
    dsn: "host=localhost user=rolodex password=rolodex dbname=rolodex port=5432 sslmode=disable"

logger:
  level: debug
  format: console

google:
  storage:
    bucket: "rolodex"
    prefix: "rolodex-dev"
    sqliteBackupSchedule: "*/30 * * * *"
    enableSqliteBackupAndSync: false
  applicationCredentials:
`
