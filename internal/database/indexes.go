// Package database - Index cho các collections (unique, compound, TTL).
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes tạo toàn bộ index cần thiết cho database.
// Gọi một lần khi khởi động server, idempotent (bỏ qua lỗi index đã tồn tại).
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	// tracked_videos: videoId là duy nhất — mỗi video chỉ được theo dõi một lần
	trackedVideos := db.Collection("tracked_videos")
	if _, err := trackedVideos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "videoId", Value: 1}},
		Options: options.Index().SetName("tracked_video_video_id").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// tracked_videos: (creatorId) — liệt kê video theo creator
	if _, err := trackedVideos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "creatorId", Value: 1}},
		Options: options.Index().SetName("tracked_video_creator"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// tracked_videos: (scanEnabled, videoId) — chọn batch video đang bật quét theo thứ tự ổn định
	if _, err := trackedVideos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "scanEnabled", Value: 1},
			{Key: "videoId", Value: 1},
		},
		Options: options.Index().SetName("tracked_video_scan_batch"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// creator_accounts: channelId duy nhất
	creatorAccounts := db.Collection("creator_accounts")
	if _, err := creatorAccounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "channelId", Value: 1}},
		Options: options.Index().SetName("creator_channel_id").SetUnique(true).SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// monthly_reports: (creatorId, month) duy nhất — mỗi creator một báo cáo mỗi tháng,
	// ràng buộc này là nền tảng cho việc tạo báo cáo idempotent
	monthlyReports := db.Collection("monthly_reports")
	if _, err := monthlyReports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "creatorId", Value: 1},
			{Key: "month", Value: 1},
		},
		Options: options.Index().SetName("monthly_report_creator_month").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// monthly_reports: (status, lockedUntil) — quét báo cáo đến hạn mở khóa
	if _, err := monthlyReports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "lockedUntil", Value: 1},
		},
		Options: options.Index().SetName("monthly_report_unlock_due"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// scan_logs: startedAt giảm dần — xem lịch sử quét mới nhất
	scanLogs := db.Collection("scan_logs")
	if _, err := scanLogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "startedAt", Value: -1}},
		Options: options.Index().SetName("scan_log_started_at"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// audit_logs: (creatorId, createdAt) — tra cứu biến động số dư theo creator
	auditLogs := db.Collection("audit_logs")
	if _, err := auditLogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "creatorId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("audit_log_creator_time"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// settings: key duy nhất
	settings := db.Collection("settings")
	if _, err := settings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetName("setting_key").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// auth_users: email duy nhất
	authUsers := db.Collection("auth_users")
	if _, err := authUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("auth_user_email").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// access_tokens: token duy nhất + TTL dọn token ngay khi tới expiredAt
	accessTokens := db.Collection("access_tokens")
	if _, err := accessTokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetName("access_token_token").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}
	if _, err := accessTokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiredAt", Value: 1}},
		Options: options.Index().SetName("access_token_ttl").SetExpireAfterSeconds(0),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
