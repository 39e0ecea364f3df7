package basehdl

// Package basehdl - base handler với các tiện ích xử lý request/response.
// Cung cấp BaseHandler generic để các domain handler embed và tái sử dụng
// các chức năng CRUD cơ bản.

import (
	"encoding/json"
	"fmt"
	"strconv"

	basesvc "evernet/internal/api/base/service"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseHandler là handler cơ sở cho các domain handler.
// T là kiểu Model, CreateInput và UpdateInput là các DTO tương ứng.
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService basesvc.BaseServiceMongo[T]
}

// ParseRequestBody parse request body JSON vào struct đích.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, out interface{}) error {
	return c.Bind().Body(out)
}

// ValidateInput validate struct với các struct tag `validate`.
// Trả về common.Error với chi tiết field lỗi nếu validate thất bại.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ValidateInput(input interface{}) error {
	if global.Validate == nil {
		return nil
	}
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Dữ liệu không hợp lệ: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	return nil
}

// TransformCreateInputToModel chuyển DTO CreateInput sang Model.
// DTO dùng primitive.ObjectID cho các field tham chiếu nên convert qua JSON
// giữ nguyên được kiểu dữ liệu.
func (h *BaseHandler[T, CreateInput, UpdateInput]) TransformCreateInputToModel(input *CreateInput) (*T, error) {
	var model T
	if _, err := utility.ConvertStruct(input, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// TransformUpdateInputToMap chuyển DTO UpdateInput sang map dữ liệu cập nhật.
// Các field zero-value với tag omitempty sẽ bị loại bỏ, cho phép partial update.
func (h *BaseHandler[T, CreateInput, UpdateInput]) TransformUpdateInputToMap(input *UpdateInput) (map[string]interface{}, error) {
	data, err := utility.ToMap(input)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ProcessFilter parse query param `filter` (JSON string) thành bson filter.
// Các giá trị hex hợp lệ của field `_id` và các field kết thúc bằng `Id`
// được convert sang ObjectID.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFilter(c fiber.Ctx) (map[string]interface{}, error) {
	raw := c.Query("filter", "{}")
	var filter map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter không đúng định dạng JSON: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	normalizeObjectIDs(filter)
	return filter, nil
}

// ParsePagination đọc query param `page` và `limit` với giá trị mặc định.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParsePagination(c fiber.Ctx) (page int64, limit int64) {
	page = 1
	limit = 20
	if v, err := strconv.ParseInt(c.Query("page", "1"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	return page, limit
}

// GetIDFromParams đọc và validate ObjectID từ route param `id`.
func (h *BaseHandler[T, CreateInput, UpdateInput]) GetIDFromParams(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"ID không đúng định dạng ObjectID",
			common.StatusBadRequest,
			err,
		)
	}
	return id, nil
}

// normalizeObjectIDs duyệt filter và convert các chuỗi hex 24 ký tự của những
// field định danh sang primitive.ObjectID để query đúng kiểu trong MongoDB.
func normalizeObjectIDs(m map[string]interface{}) {
	for k, v := range m {
		switch val := v.(type) {
		case string:
			if isIDField(k) {
				if oid, err := primitive.ObjectIDFromHex(val); err == nil {
					m[k] = oid
				}
			}
		case map[string]interface{}:
			normalizeObjectIDs(val)
		case []interface{}:
			for i, item := range val {
				if s, ok := item.(string); ok && isIDField(k) {
					if oid, err := primitive.ObjectIDFromHex(s); err == nil {
						val[i] = oid
					}
				} else if sub, ok := item.(map[string]interface{}); ok {
					normalizeObjectIDs(sub)
				}
			}
		}
	}
}

func isIDField(key string) bool {
	if key == "_id" {
		return true
	}
	n := len(key)
	return n >= 2 && key[n-2:] == "Id"
}
