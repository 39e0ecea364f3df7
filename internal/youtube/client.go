// Package youtube gọi YouTube Data API v3 để lấy số liệu thống kê video.
// Đây là nguồn dữ liệu lượt xem duy nhất của hệ thống; mọi lỗi từ phía
// YouTube được quy về ErrProviderUnavailable để tầng trên xử lý thống nhất.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"evernet/internal/common"
	"evernet/internal/logger"
	"evernet/internal/utility"
)

// maxIDsPerRequest là giới hạn số video id trong một request videos.list của YouTube
const maxIDsPerRequest = 50

// VideoStats chứa số liệu thống kê của một video tại thời điểm quét
type VideoStats struct {
	VideoID     string // ID video trên YouTube
	Title       string // Tiêu đề hiện tại
	ChannelID   string // ID kênh sở hữu video
	PublishedAt string // Thời điểm đăng video (RFC3339)
	ViewCount   int64  // Tổng lượt xem tích lũy
	IsPublic    bool   // Video đang ở chế độ công khai
}

// Client gọi YouTube Data API v3 (videos.list).
// Client tự chia danh sách id thành các chunk 50 id và điều tiết tần suất gọi.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	concurrency int
}

// NewClient tạo client mới.
// baseURL thường là "https://www.googleapis.com/youtube/v3",
// có thể trỏ về server giả lập khi test.
func NewClient(apiKey string, baseURL string, concurrency int) *Client {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		// Tối đa 5 request/giây, đủ thấp để không chạm quota YouTube
		limiter:     rate.NewLimiter(rate.Limit(5), 1),
		concurrency: concurrency,
	}
}

// videosListResponse là cấu trúc response của videos.list (part=snippet,statistics,status)
type videosListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			ChannelID   string `json:"channelId"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		Status struct {
			PrivacyStatus string `json:"privacyStatus"`
		} `json:"status"`
	} `json:"items"`
}

// FetchMany lấy thống kê cho nhiều video trong một lần.
// Kết quả là map videoID → stats; video không còn tồn tại trên YouTube
// sẽ vắng mặt trong map (không phải lỗi).
// Chunk gọi API thất bại KHÔNG làm hỏng cả lần gọi: các id thuộc chunk đó
// được trả về trong map failed (lỗi bọc ErrProviderUnavailable), các chunk
// còn lại vẫn được lấy bình thường.
func (c *Client) FetchMany(ctx context.Context, videoIDs []string) (map[string]*VideoStats, map[string]error, error) {
	videoIDs = utility.Dedup(videoIDs)
	if len(videoIDs) == 0 {
		return map[string]*VideoStats{}, map[string]error{}, nil
	}

	chunks := utility.Chunk(videoIDs, maxIDsPerRequest)
	results := make([]map[string]*VideoStats, len(chunks))
	chunkErrs := make([]error, len(chunks))

	g := &errgroup.Group{}
	g.SetLimit(c.concurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			stats, err := c.fetchChunk(ctx, chunk)
			if err != nil {
				chunkErrs[i] = err
				return nil
			}
			results[i] = stats
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	merged := make(map[string]*VideoStats, len(videoIDs))
	failed := make(map[string]error)
	for i, m := range results {
		if chunkErrs[i] != nil {
			for _, id := range chunks[i] {
				failed[id] = chunkErrs[i]
			}
			continue
		}
		for id, s := range m {
			merged[id] = s
		}
	}
	return merged, failed, nil
}

// FetchOne lấy thống kê cho một video.
// Trả về ErrVideoNotFound nếu video không còn tồn tại trên YouTube.
func (c *Client) FetchOne(ctx context.Context, videoID string) (*VideoStats, error) {
	stats, failed, err := c.FetchMany(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	if ferr, ok := failed[videoID]; ok {
		return nil, ferr
	}
	s, ok := stats[videoID]
	if !ok {
		return nil, fmt.Errorf("video %s: %w", videoID, common.ErrVideoNotFound)
	}
	return s, nil
}

// fetchChunk gọi videos.list cho tối đa 50 id
func (c *Client) fetchChunk(ctx context.Context, videoIDs []string) (map[string]*VideoStats, error) {
	// Điều tiết tần suất gọi API theo limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics,status")
	params.Set("id", strings.Join(videoIDs, ","))
	params.Set("key", c.apiKey)
	params.Set("maxResults", strconv.Itoa(maxIDsPerRequest))

	endpoint := fmt.Sprintf("%s/videos?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tạo request thất bại: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetAppLogger().WithError(err).Error("Gọi YouTube API thất bại")
		return nil, fmt.Errorf("gọi YouTube API thất bại: %w", common.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("đọc response thất bại: %w", common.ErrProviderUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("YouTube API trả về lỗi")
		return nil, fmt.Errorf("YouTube API trả về status %d: %w", resp.StatusCode, common.ErrProviderUnavailable)
	}

	var parsed videosListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response thất bại: %w", common.ErrProviderUnavailable)
	}

	stats := make(map[string]*VideoStats, len(parsed.Items))
	for _, item := range parsed.Items {
		viewCount, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		if err != nil {
			// viewCount bị ẩn (video private thống kê) — bỏ qua video này
			logger.GetAppLogger().WithField("videoId", item.ID).Warn("Không parse được viewCount, bỏ qua video")
			continue
		}
		stats[item.ID] = &VideoStats{
			VideoID:     item.ID,
			Title:       item.Snippet.Title,
			ChannelID:   item.Snippet.ChannelID,
			PublishedAt: item.Snippet.PublishedAt,
			ViewCount:   viewCount,
			IsPublic:    item.Status.PrivacyStatus == "public",
		}
	}
	return stats, nil
}
