// Package global chứa các biến toàn cục dùng chung trong toàn bộ ứng dụng:
// cấu hình server, kết nối MongoDB, registry collections và validator.
package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"evernet/config"
	"evernet/internal/registry"
	"evernet/internal/youtube"
)

// Tên các collections trong database.
// Mọi truy cập collection đều đi qua RegistryCollections theo các tên này.
const (
	ColTrackedVideos   = "tracked_videos"   // Video đang theo dõi lượt xem
	ColCreatorAccounts = "creator_accounts" // Tài khoản creator với số dư locked/available
	ColMonthlyReports  = "monthly_reports"  // Báo cáo doanh thu hàng tháng
	ColScanLogs        = "scan_logs"        // Nhật ký các đợt quét lượt xem
	ColAuditLogs       = "audit_logs"       // Audit trail các biến động số dư
	ColSettings        = "settings"         // Cấu hình tỷ lệ chia sẻ doanh thu
	ColAuthUsers       = "auth_users"       // Người dùng hệ thống (admin/operator)
	ColAccessTokens    = "access_tokens"    // Token đăng nhập đã cấp
)

// CollectionNames liệt kê tất cả collections cần đăng ký khi khởi động
var CollectionNames = []string{
	ColTrackedVideos,
	ColCreatorAccounts,
	ColMonthlyReports,
	ColScanLogs,
	ColAuditLogs,
	ColSettings,
	ColAuthUsers,
	ColAccessTokens,
}

var (
	// ServerConfig chứa cấu hình server đọc từ environment
	ServerConfig *config.Configuration

	// MongoDBClient là client kết nối MongoDB
	MongoDBClient *mongo.Client

	// RegistryCollections quản lý các mongo collections theo tên.
	// Services lấy collection qua registry thay vì giữ tham chiếu trực tiếp.
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()

	// Validate là validator instance dùng chung, đã đăng ký custom validators
	Validate *validator.Validate

	// YouTubeClient là metadata client dùng chung cho quét và đăng ký video
	YouTubeClient *youtube.Client
)
