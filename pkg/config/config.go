package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Backend  BackendConfig
	JWT      JWTConfig
	Sync     SyncConfig
	Guest    GuestConfig
	Checkout CheckoutConfig
	AMQP     AMQPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP local del daemon.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig backend remoto del marketplace (carrito, órdenes, pagos).
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// Timeout devuelve el timeout de red como time.Duration.
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// JWTConfig validación del token de sesión emitido por el proveedor de identidad.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// SyncConfig tiempos del motor de reconciliación.
type SyncConfig struct {
	DebounceMs int // periodo de quietud antes del push debounced
	SettleMs   int // espera de asentamiento tras remociones en lote
}

// Debounce devuelve el periodo de quietud del push.
func (c SyncConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Settle devuelve la espera de asentamiento.
func (c SyncConfig) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// GuestConfig persistencia local del carrito invitado.
type GuestConfig struct {
	CartPath string // ruta del archivo JSON con el carrito invitado
}

// CheckoutConfig URLs de retorno para la sesión de pago en línea.
type CheckoutConfig struct {
	SuccessURL string
	CancelURL  string
}

// AMQPConfig publicación opcional de eventos de órdenes.
// URI vacío desactiva el publicador.
type AMQPConfig struct {
	URI      string
	Exchange string
}

// Enabled indica si el publicador AMQP debe conectarse.
func (c AMQPConfig) Enabled() bool {
	return c.URI != ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "buildable-storefront"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8090),
		},
		Backend: BackendConfig{
			BaseURL:        getString(v, "BACKEND_BASE_URL", "http://localhost:5000/api"),
			TimeoutSeconds: getInt(v, "BACKEND_TIMEOUT_SECONDS", 15),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "buildable"),
		},
		Sync: SyncConfig{
			DebounceMs: getInt(v, "SYNC_DEBOUNCE_MS", 800),
			SettleMs:   getInt(v, "SYNC_SETTLE_MS", 350),
		},
		Guest: GuestConfig{
			CartPath: getString(v, "GUEST_CART_PATH", ".buildable/guest_cart.json"),
		},
		Checkout: CheckoutConfig{
			SuccessURL: getString(v, "CHECKOUT_SUCCESS_URL", "http://localhost:3000/payment/success"),
			CancelURL:  getString(v, "CHECKOUT_CANCEL_URL", "http://localhost:3000/payment/cancel"),
		},
		AMQP: AMQPConfig{
			URI:      getString(v, "AMQP_URI", ""),
			Exchange: getString(v, "AMQP_EXCHANGE", "storefront.orders"),
		},
	}

	return cfg, nil
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
