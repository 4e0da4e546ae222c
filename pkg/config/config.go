package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	JWT         JWTConfig
	POS         POSConfig
	Persistence PersistenceConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT para identidad del cajero.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// POSConfig reglas de negocio del punto de venta: impuestos, fidelización y recibos.
// TaxRates mapea categoría de producto -> tasa; la búsqueda es por clave exacta y
// cae en DefaultTaxRate para categorías desconocidas.
type POSConfig struct {
	DefaultTaxRate    decimal.Decimal
	TaxRates          map[string]decimal.Decimal
	PointsPerUnit     decimal.Decimal // puntos acumulados por unidad monetaria vendida
	PointsPerDiscount int64           // puntos necesarios por cada unidad de descuento
	DiscountValue     decimal.Decimal // valor del descuento por cada PointsPerDiscount puntos
	ReceiptPrefix     string
}

// PersistenceConfig selecciona el almacén de snapshots y sus parámetros.
// Driver: memory | file | redis | postgres.
type PersistenceConfig struct {
	Driver      string
	FileDir     string // driver file: directorio de blobs
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	DatabaseURL string // driver postgres: connection string completo
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, JWT_SECRET,
// POS_TAX_RATES, PERSISTENCE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	taxRates, err := parseTaxRates(getString(v, "POS_TAX_RATES", "food=0.05,clothing=0.08"))
	if err != nil {
		return nil, fmt.Errorf("POS_TAX_RATES inválido: %w", err)
	}
	defaultTax, err := decimal.NewFromString(getString(v, "POS_DEFAULT_TAX_RATE", "0.10"))
	if err != nil {
		return nil, fmt.Errorf("POS_DEFAULT_TAX_RATE inválido: %w", err)
	}
	pointsPerUnit, err := decimal.NewFromString(getString(v, "POS_POINTS_PER_UNIT", "1"))
	if err != nil {
		return nil, fmt.Errorf("POS_POINTS_PER_UNIT inválido: %w", err)
	}
	discountValue, err := decimal.NewFromString(getString(v, "POS_DISCOUNT_VALUE", "5"))
	if err != nil {
		return nil, fmt.Errorf("POS_DISCOUNT_VALUE inválido: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "pos-pro"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "pos-pro"),
		},
		POS: POSConfig{
			DefaultTaxRate:    defaultTax,
			TaxRates:          taxRates,
			PointsPerUnit:     pointsPerUnit,
			PointsPerDiscount: int64(getInt(v, "POS_POINTS_PER_DISCOUNT", 100)),
			DiscountValue:     discountValue,
			ReceiptPrefix:     getString(v, "POS_RECEIPT_PREFIX", "RCP"),
		},
		Persistence: PersistenceConfig{
			Driver:      getString(v, "PERSISTENCE_DRIVER", "memory"),
			FileDir:     getString(v, "PERSISTENCE_FILE_DIR", "./data"),
			RedisAddr:   getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPass:   getString(v, "REDIS_PASSWORD", ""),
			RedisDB:     getInt(v, "REDIS_DB", 0),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
		},
	}

	return cfg, nil
}

// parseTaxRates interpreta "categoria=tasa,categoria=tasa" (ej: "food=0.05,clothing=0.08").
func parseTaxRates(raw string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	if strings.TrimSpace(raw) == "" {
		return rates, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("par categoría=tasa mal formado: %q", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("tasa inválida para %q: %w", parts[0], err)
		}
		rates[strings.TrimSpace(parts[0])] = rate
	}
	return rates, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
