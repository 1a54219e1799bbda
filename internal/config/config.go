package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the detection pipeline. Values come from
// the environment, with a .env file loaded first if one exists.
type Config struct {
	Port          int
	CameraSource  string // device index ("0") or RTSP/HTTP URL
	LocationLabel string

	// Model files
	CrowdModelPath    string
	CrowdConfigPath   string
	WeaponModelPath   string
	WeaponConfigPath  string
	ViolenceModelPath string

	// Alerting policy
	CrowdCooldownSeconds    int
	WeaponCooldownSeconds   int
	ViolenceCooldownSeconds int
	CrowdAlertThreshold     int     // people count above which a cycle is alert-worthy
	WeaponConfidence        float64 // label-gate threshold applied after inference
	WeaponModelConfidence   float64 // confidence the model itself filters at
	ViolenceSampleInterval  int     // classify every Nth cycle
	CrowdHistorySize        int

	// Streaming
	StreamQuality int // JPEG quality for captured and annotated frames

	// Dispatch
	DispatchWorkers   int
	DispatchQueueSize int

	// Collaborators
	DatabasePath   string
	TelegramToken  string
	TelegramChatID int64

	LogDirectory string
}

// Load reads the configuration from the environment. Missing values fall
// back to defaults matching the reference deployment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnvAsInt("PORT", 5000),
		CameraSource:  getEnv("CAMERA_SOURCE", "0"),
		LocationLabel: getEnv("LOCATION_LABEL", "Camera 1"),

		CrowdModelPath:    getEnv("CROWD_MODEL_PATH", filepath.Join(".", "models", "crowd", "best.onnx")),
		CrowdConfigPath:   getEnv("CROWD_CONFIG_PATH", ""),
		WeaponModelPath:   getEnv("WEAPON_MODEL_PATH", filepath.Join(".", "models", "weapon", "weapon.onnx")),
		WeaponConfigPath:  getEnv("WEAPON_CONFIG_PATH", ""),
		ViolenceModelPath: getEnv("VIOLENCE_MODEL_PATH", filepath.Join(".", "models", "violence", "violence_detection.onnx")),

		CrowdCooldownSeconds:    getEnvAsInt("CROWD_COOLDOWN", 12),
		WeaponCooldownSeconds:   getEnvAsInt("WEAPON_COOLDOWN", 12),
		ViolenceCooldownSeconds: getEnvAsInt("VIOLENCE_COOLDOWN", 12),
		CrowdAlertThreshold:     getEnvAsInt("CROWD_ALERT_THRESHOLD", 35),
		WeaponConfidence:        getEnvAsFloat("WEAPON_CONFIDENCE", 0.20),
		WeaponModelConfidence:   getEnvAsFloat("WEAPON_MODEL_CONFIDENCE", 0.75),
		ViolenceSampleInterval:  getEnvAsInt("VIOLENCE_SAMPLE_INTERVAL", 15),
		CrowdHistorySize:        getEnvAsInt("CROWD_HISTORY_SIZE", 30),

		StreamQuality: getEnvAsInt("STREAM_QUALITY", 85),

		DispatchWorkers:   getEnvAsInt("DISPATCH_WORKERS", 2),
		DispatchQueueSize: getEnvAsInt("DISPATCH_QUEUE_SIZE", 16),

		DatabasePath:   getEnv("DATABASE_PATH", filepath.Join(".", "data", "alerts.db")),
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnvAsInt64("TELEGRAM_CHAT_ID", 0),

		LogDirectory: getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
