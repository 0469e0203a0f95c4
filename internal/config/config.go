package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	Secret         string        `mapstructure:"secret"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	Media  MediaConfig  `mapstructure:"media"`
	Relay  RelayConfig  `mapstructure:"relay"`
	Signal SignalConfig `mapstructure:"signal"`
}

// MediaConfig drives the process-wide router: codecs it accepts and the
// network it binds transports to.
type MediaConfig struct {
	ListenIP    string        `mapstructure:"listen_ip"`
	AnnouncedIP string        `mapstructure:"announced_ip"`
	RTCMinPort  uint16        `mapstructure:"rtc_min_port"`
	RTCMaxPort  uint16        `mapstructure:"rtc_max_port"`
	PLIInterval time.Duration `mapstructure:"pli_interval"`
	Codecs      []CodecConfig `mapstructure:"codecs"`
}

type CodecConfig struct {
	Kind        string `mapstructure:"kind"`
	MimeType    string `mapstructure:"mime_type"`
	ClockRate   uint32 `mapstructure:"clock_rate"`
	Channels    uint16 `mapstructure:"channels"`
	PayloadType uint8  `mapstructure:"payload_type"`
	SDPFmtpLine string `mapstructure:"fmtp"`
}

// RelayConfig holds the HLS relay parameters that used to be literals.
type RelayConfig struct {
	FFmpegPath      string        `mapstructure:"ffmpeg_path"`
	OutputDir       string        `mapstructure:"output_dir"`
	SegmentDuration int           `mapstructure:"segment_duration"`
	ListSize        int           `mapstructure:"list_size"`
	MinPort         int           `mapstructure:"min_port"`
	MaxPort         int           `mapstructure:"max_port"`
	StopTimeout     time.Duration `mapstructure:"stop_timeout"`
}

type SignalConfig struct {
	ReadLimit         int64         `mapstructure:"read_limit"`
	PingPeriod        time.Duration `mapstructure:"ping_period"`
	SendBuffer        int           `mapstructure:"send_buffer"`
	TransportLimit    int           `mapstructure:"transport_limit"`
	TransportInterval time.Duration `mapstructure:"transport_interval"`
}

func DefaultCodecs() []CodecConfig {
	return []CodecConfig{
		{Kind: "video", MimeType: "video/VP8", ClockRate: 90000, PayloadType: 96},
		{Kind: "audio", MimeType: "audio/opus", ClockRate: 48000, Channels: 2, PayloadType: 111, SDPFmtpLine: "minptime=10;useinbandfec=1"},
	}
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3008)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "hlsrelay-secret")
	v.SetDefault("request_timeout", "30s")

	v.SetDefault("media.listen_ip", "0.0.0.0")
	v.SetDefault("media.announced_ip", "127.0.0.1")
	v.SetDefault("media.rtc_min_port", 10000)
	v.SetDefault("media.rtc_max_port", 10100)
	v.SetDefault("media.pli_interval", "2s")

	v.SetDefault("relay.ffmpeg_path", "ffmpeg")
	v.SetDefault("relay.output_dir", "./public/hls")
	v.SetDefault("relay.segment_duration", 2)
	v.SetDefault("relay.list_size", 3)
	v.SetDefault("relay.min_port", 20000)
	v.SetDefault("relay.max_port", 20100)
	v.SetDefault("relay.stop_timeout", "2s")

	v.SetDefault("signal.read_limit", 65536)
	v.SetDefault("signal.ping_period", "54s")
	v.SetDefault("signal.send_buffer", 32)
	v.SetDefault("signal.transport_limit", 10)
	v.SetDefault("signal.transport_interval", "1m")

	// The listening port is the one knob exposed through the environment.
	if err := v.BindEnv("port", "PORT"); err != nil {
		return nil, fmt.Errorf("bind PORT: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Media.Codecs) == 0 {
		cfg.Media.Codecs = DefaultCodecs()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("hls_dir", cfg.Relay.OutputDir).
		Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Media.RTCMinPort == 0 || c.Media.RTCMaxPort < c.Media.RTCMinPort {
		return fmt.Errorf("invalid rtc port range %d-%d", c.Media.RTCMinPort, c.Media.RTCMaxPort)
	}
	if c.Relay.MinPort <= 0 || c.Relay.MaxPort < c.Relay.MinPort {
		return fmt.Errorf("invalid relay port range %d-%d", c.Relay.MinPort, c.Relay.MaxPort)
	}
	if c.Relay.SegmentDuration <= 0 || c.Relay.ListSize <= 0 {
		return fmt.Errorf("relay segment duration and list size must be positive")
	}
	for _, codec := range c.Media.Codecs {
		kind := strings.ToLower(codec.Kind)
		if kind != "audio" && kind != "video" {
			return fmt.Errorf("codec %s: unknown kind %q", codec.MimeType, codec.Kind)
		}
		if codec.ClockRate == 0 {
			return fmt.Errorf("codec %s: clock rate is required", codec.MimeType)
		}
	}
	return nil
}
