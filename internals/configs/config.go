package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Zona waktu operasional dapur (deadline dihitung di zona ini)
	AppTimezone string
	AppLocation *time.Location

	// Deadline policy (default: H-1 15:00 strict, H-3 18:00 grace)
	StrictLockDaysBefore int
	StrictLockHour       int
	GraceLockDaysBefore  int
	GraceLockHour        int

	CorsOrigins []string

	ReminderCronSchedule string
	CleanupCronSchedule  string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env tidak ditemukan, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AccessTokenTTL = time.Duration(GetEnvInt("ACCESS_TOKEN_TTL_HOURS", 24*7)) * time.Hour

	AppTimezone = GetEnv("APP_TIMEZONE", "Asia/Tokyo")
	AppLocation = LoadLocation(AppTimezone)

	StrictLockDaysBefore = GetEnvInt("STRICT_LOCK_DAYS_BEFORE", 1)
	StrictLockHour = GetEnvInt("STRICT_LOCK_HOUR", 15)
	GraceLockDaysBefore = GetEnvInt("GRACE_LOCK_DAYS_BEFORE", 3)
	GraceLockHour = GetEnvInt("GRACE_LOCK_HOUR", 18)

	CorsOrigins = splitCSV(GetEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"))

	ReminderCronSchedule = GetEnv("REMINDER_CRON_SCHEDULE", "0 9 * * *")
	CleanupCronSchedule = GetEnv("CLEANUP_CRON_SCHEDULE", "30 3 * * *")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
	log.Printf("[INFO] timezone=%s strict=H-%d %02d:00 grace=H-%d %02d:00",
		AppTimezone, StrictLockDaysBefore, StrictLockHour, GraceLockDaysBefore, GraceLockHour)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q bukan angka, pakai default %d", key, v, def)
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// LoadLocation fallback ke Asia/Tokyo lalu UTC
func LoadLocation(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	log.Printf("[WARN] timezone %q tidak dikenal, fallback Asia/Tokyo", name)
	if loc, err := time.LoadLocation("Asia/Tokyo"); err == nil {
		return loc
	}
	return time.FixedZone("JST", 9*60*60)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && !isRecordNotFound(err):
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

func isRecordNotFound(err error) bool {
	return err == gormLogger.ErrRecordNotFound
}
