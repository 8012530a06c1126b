package envconfig

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Receipt storage backends.
const (
	ReceiptStorageLocal = "local"
	ReceiptStorageS3    = "s3"
)

// S3Config points receipt uploads at an S3 compatible bucket (AWS, R2, MinIO).
type S3Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// KafkaConfig enables order events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AppConfig holds application settings that are not database or logging.
type AppConfig struct {
	Host           string
	Port           string
	TaxRate        decimal.Decimal
	LenientUnits   bool
	ReceiptsDir    string
	ReceiptStorage string
	S3             S3Config
	CORSOrigins    []string
	SeedCatalog    bool
	Kafka          KafkaConfig
}

// LoadAppConfig reads application settings from the environment.
func LoadAppConfig() (AppConfig, error) {
	rate, err := decimal.NewFromString(GetEnv("TAX_RATE", "0.19"))
	if err != nil {
		return AppConfig{}, fmt.Errorf("TAX_RATE: %w", err)
	}
	if rate.IsNegative() {
		return AppConfig{}, fmt.Errorf("TAX_RATE cannot be negative: %s", rate)
	}

	cfg := AppConfig{
		Host:           GetEnv("HOST", "0.0.0.0"),
		Port:           GetEnv("PORT", "8080"),
		TaxRate:        rate,
		LenientUnits:   !GetBool("STRICT_UNITS", true),
		ReceiptsDir:    GetEnv("RECEIPTS_DIR", "boletas"),
		ReceiptStorage: strings.ToLower(GetEnv("RECEIPT_STORAGE", ReceiptStorageLocal)),
		S3: S3Config{
			Endpoint:      GetEnv("S3_ENDPOINT", ""),
			Region:        GetEnv("S3_REGION", "auto"),
			AccessKey:     GetEnv("S3_ACCESS_KEY", ""),
			SecretKey:     GetEnv("S3_SECRET_KEY", ""),
			Bucket:        GetEnv("S3_BUCKET", ""),
			PublicBaseURL: GetEnv("S3_PUBLIC_BASE_URL", ""),
		},
		CORSOrigins: splitList(GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		SeedCatalog: GetBool("SEED_DEFAULT_MENUS", true),
		Kafka: KafkaConfig{
			Brokers: splitList(GetEnv("KAFKA_BROKERS", "")),
			Topic:   GetEnv("KAFKA_ORDERS_TOPIC", "restaurante.pedidos"),
		},
	}

	switch cfg.ReceiptStorage {
	case ReceiptStorageLocal:
	case ReceiptStorageS3:
		if cfg.S3.Bucket == "" {
			return AppConfig{}, fmt.Errorf("RECEIPT_STORAGE=s3 requires S3_BUCKET")
		}
	default:
		return AppConfig{}, fmt.Errorf("unknown RECEIPT_STORAGE %q", cfg.ReceiptStorage)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
