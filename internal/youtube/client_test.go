package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evernet/internal/common"
)

// newFakeServer dựng server giả lập videos.list trả về stats theo map cho trước
func newFakeServer(t *testing.T, views map[string]int64, capture *[][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("key"), "request phải kèm API key")

		ids := strings.Split(r.URL.Query().Get("id"), ",")
		if capture != nil {
			*capture = append(*capture, ids)
		}

		type item struct {
			ID      string `json:"id"`
			Snippet struct {
				Title     string `json:"title"`
				ChannelID string `json:"channelId"`
			} `json:"snippet"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
			} `json:"statistics"`
			Status struct {
				PrivacyStatus string `json:"privacyStatus"`
			} `json:"status"`
		}
		var items []item
		for _, id := range ids {
			v, ok := views[id]
			if !ok {
				continue // video đã bị xóa: YouTube chỉ bỏ qua, không báo lỗi
			}
			it := item{ID: id}
			it.Snippet.Title = "video " + id
			it.Snippet.ChannelID = "chan-" + id
			it.Statistics.ViewCount = strconv.FormatInt(v, 10)
			it.Status.PrivacyStatus = "public"
			items = append(items, it)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	}))
}

func TestFetchManyReturnsStats(t *testing.T) {
	views := map[string]int64{
		"aaaaaaaaaaa": 150000,
		"bbbbbbbbbbb": 42,
	}
	server := newFakeServer(t, views, nil)
	defer server.Close()

	client := NewClient("test-key", server.URL, 2)
	stats, failed, err := client.FetchMany(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"})
	require.NoError(t, err)
	require.Empty(t, failed)

	require.Contains(t, stats, "aaaaaaaaaaa")
	assert.Equal(t, int64(150000), stats["aaaaaaaaaaa"].ViewCount)
	assert.Equal(t, "chan-aaaaaaaaaaa", stats["aaaaaaaaaaa"].ChannelID)
	assert.Equal(t, int64(42), stats["bbbbbbbbbbb"].ViewCount)

	// Video không tồn tại phải vắng mặt trong kết quả, không gây lỗi
	assert.NotContains(t, stats, "ccccccccccc")
}

func TestFetchManyChunksAt50(t *testing.T) {
	views := make(map[string]int64)
	var ids []string
	for i := 0; i < 120; i++ {
		id := strings.Repeat("x", 9) + string(rune('a'+i%26)) + string(rune('a'+i/26))
		views[id] = int64(i)
		ids = append(ids, id)
	}

	var captured [][]string
	server := newFakeServer(t, views, &captured)
	defer server.Close()

	// concurrency 1 để thứ tự chunk ổn định
	client := NewClient("test-key", server.URL, 1)
	stats, failed, err := client.FetchMany(context.Background(), ids)
	require.NoError(t, err)
	require.Empty(t, failed)
	assert.Len(t, stats, 120)

	// 120 id → 3 request: 50 + 50 + 20
	require.Len(t, captured, 3)
	sizes := []int{len(captured[0]), len(captured[1]), len(captured[2])}
	assert.ElementsMatch(t, []int{50, 50, 20}, sizes)
	for _, chunk := range captured {
		assert.LessOrEqual(t, len(chunk), 50, "mỗi request không được vượt quá 50 id")
	}
}

func TestFetchManyDedupsIDs(t *testing.T) {
	var captured [][]string
	server := newFakeServer(t, map[string]int64{"aaaaaaaaaaa": 7}, &captured)
	defer server.Close()

	client := NewClient("test-key", server.URL, 1)
	_, _, err := client.FetchMany(context.Background(), []string{"aaaaaaaaaaa", "aaaaaaaaaaa", "aaaaaaaaaaa"})
	require.NoError(t, err)

	require.Len(t, captured, 1)
	assert.Len(t, captured[0], 1, "id trùng lặp phải được loại trước khi gọi API")
}

func TestFetchManyProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"quotaExceeded"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 1)
	stats, failed, err := client.FetchMany(context.Background(), []string{"aaaaaaaaaaa"})
	require.NoError(t, err, "lỗi chunk không làm hỏng cả lần gọi")
	assert.Empty(t, stats)
	require.Contains(t, failed, "aaaaaaaaaaa")
	assert.True(t, errors.Is(failed["aaaaaaaaaaa"], common.ErrProviderUnavailable), "lỗi HTTP phải quy về ErrProviderUnavailable")
}

func TestFetchManyPartialChunkFailure(t *testing.T) {
	// 60 id → 2 chunk. Server trả 500 cho chunk chứa id đánh dấu:
	// chunk hỏng chỉ làm fail 50 id của nó, 10 id còn lại vẫn có stats.
	var ids []string
	views := make(map[string]int64)
	for i := 0; i < 60; i++ {
		id := "vvvvvvvvv" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		ids = append(ids, id)
		views[id] = int64(i * 100)
	}
	badID := ids[0]

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqIDs := strings.Split(r.URL.Query().Get("id"), ",")
		for _, id := range reqIDs {
			if id == badID {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}
		type item struct {
			ID         string `json:"id"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
			} `json:"statistics"`
			Status struct {
				PrivacyStatus string `json:"privacyStatus"`
			} `json:"status"`
		}
		var items []item
		for _, id := range reqIDs {
			it := item{ID: id}
			it.Statistics.ViewCount = strconv.FormatInt(views[id], 10)
			it.Status.PrivacyStatus = "public"
			items = append(items, it)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 1)
	stats, failed, err := client.FetchMany(context.Background(), ids)
	require.NoError(t, err)

	assert.Len(t, stats, 10, "chunk còn lại vẫn phải được lấy đầy đủ")
	assert.Len(t, failed, 50, "toàn bộ id của chunk hỏng phải được ghi nhận lỗi")
	require.Contains(t, failed, badID)
	assert.True(t, errors.Is(failed[badID], common.ErrProviderUnavailable))
	assert.NotContains(t, stats, badID)
	require.Contains(t, stats, ids[59])
	assert.Equal(t, int64(5900), stats[ids[59]].ViewCount)
}

func TestFetchOneVideoNotFound(t *testing.T) {
	server := newFakeServer(t, map[string]int64{}, nil)
	defer server.Close()

	client := NewClient("test-key", server.URL, 1)
	_, err := client.FetchOne(context.Background(), "ddddddddddd")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrVideoNotFound))
}

func TestFetchManyEmptyInput(t *testing.T) {
	client := NewClient("test-key", "http://unused.invalid", 1)
	stats, _, err := client.FetchMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stats)
}
