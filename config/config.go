package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng:
// địa chỉ server, kết nối MongoDB, YouTube API và tham số các worker.
type Configuration struct {
	InitMode  bool   `env:"INITMODE" envDefault:"false"` // Chế độ khởi tạo (seed admin + settings)
	Address   string `env:"ADDRESS" envDefault:":8080"`  // Địa chỉ server
	JwtSecret string `env:"JWT_SECRET,required"`         // Bí mật JWT

	// MongoDB
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"` // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`         // Tên cơ sở dữ liệu

	// YouTube Data API
	YouTubeAPIKey  string `env:"YOUTUBE_API_KEY,required"`                                      // API key gọi YouTube Data API v3
	YouTubeBaseURL string `env:"YOUTUBE_BASE_URL" envDefault:"https://www.googleapis.com/youtube/v3"` // Base URL (đổi được khi test)

	// Scan worker: quét lượt xem video định kỳ
	ScanIntervalHours int `env:"SCAN_INTERVAL_HOURS" envDefault:"24"` // Chu kỳ quét (giờ)
	ScanBatchSize     int `env:"SCAN_BATCH_SIZE" envDefault:"500"`    // Số video tối đa mỗi đợt quét
	ScanConcurrency   int `env:"SCAN_CONCURRENCY" envDefault:"4"`     // Số chunk gọi API song song

	// Unlock worker: mở khóa báo cáo đến hạn
	UnlockIntervalMinutes int `env:"UNLOCK_INTERVAL_MINUTES" envDefault:"60"` // Chu kỳ kiểm tra báo cáo đến hạn (phút)
	UnlockDelayDays       int `env:"UNLOCK_DELAY_DAYS" envDefault:"30"`       // Số ngày khóa kể từ khi tạo báo cáo

	// CORS
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials

	// Rate limiting cho API public
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`      // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"`    // Thời gian window (giây)
	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"` // Bật/tắt rate limiting

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)

	// Tài khoản admin mặc định (tự động tạo trong init)
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@evernet.local"` // Email admin mặc định
	AdminPassword string `env:"ADMIN_PASSWORD"`                               // Mật khẩu admin mặc định (bắt buộc khi INITMODE=true)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ thư mục hiện tại
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc dữ liệu cấu hình từ file env theo GO_ENV, sau đó parse từ environment
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		// Load file env nếu có; environment thật vẫn được ưu tiên
		if err := godotenv.Load(envPath); err != nil {
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
