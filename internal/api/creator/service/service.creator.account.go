// Package creatorsvc - service tài khoản creator.
package creatorsvc

import (
	"context"
	"fmt"

	basesvc "evernet/internal/api/base/service"
	models "evernet/internal/api/creator/models"
	"evernet/internal/common"
	"evernet/internal/global"
	"evernet/internal/money"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatorService là service quản lý tài khoản creator.
type CreatorService struct {
	*basesvc.BaseServiceMongoImpl[models.CreatorAccount]
}

// NewCreatorService tạo mới CreatorService
func NewCreatorService() (*CreatorService, error) {
	collection, exist := global.RegistryCollections.Get(global.ColCreatorAccounts)
	if !exist {
		return nil, fmt.Errorf("failed to get creator_accounts collection: %v", common.ErrNotFound)
	}
	return &CreatorService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.CreatorAccount](collection),
	}, nil
}

// BalanceView là số dư định dạng cho dashboard.
type BalanceView struct {
	CreatorID             string `json:"creatorId"`
	DisplayName           string `json:"displayName"`
	LockedBalanceCents    int64  `json:"lockedBalanceCents"`
	AvailableBalanceCents int64  `json:"availableBalanceCents"`
	LifetimeEarningsCents int64  `json:"lifetimeEarningsCents"`
	LockedBalance         string `json:"lockedBalance"`
	AvailableBalance      string `json:"availableBalance"`
	LifetimeEarnings      string `json:"lifetimeEarnings"`
}

// GetBalance trả về số dư của một creator kèm chuỗi tiền đã định dạng.
func (s *CreatorService) GetBalance(ctx context.Context, creatorID primitive.ObjectID) (*BalanceView, error) {
	account, err := s.BaseServiceMongoImpl.FindOneById(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	return &BalanceView{
		CreatorID:             account.ID.Hex(),
		DisplayName:           account.DisplayName,
		LockedBalanceCents:    account.LockedBalanceCents,
		AvailableBalanceCents: account.AvailableBalanceCents,
		LifetimeEarningsCents: account.LifetimeEarningsCents,
		LockedBalance:         money.FormatCents(account.LockedBalanceCents),
		AvailableBalance:      money.FormatCents(account.AvailableBalanceCents),
		LifetimeEarnings:      money.FormatCents(account.LifetimeEarningsCents),
	}, nil
}
