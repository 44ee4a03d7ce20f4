package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

type WarikanServiceInterface interface {
	Warikan(ctx context.Context, planID, userID uuid.UUID) (*response_models.WarikanResponse, error)
	NotifyWarikan(ctx context.Context, planID, userID uuid.UUID) (*response_models.WarikanNotifyResponse, error)
}

type WarikanService struct {
	planRepo    repositories.PlanRepository
	memberRepo  repositories.MemberRepository
	expenseRepo repositories.ExpenseRepository
	perms       PermissionServiceInterface
	mailer      IMailService
	log         *zap.Logger
}

func NewWarikanService(
	planRepo repositories.PlanRepository,
	memberRepo repositories.MemberRepository,
	expenseRepo repositories.ExpenseRepository,
	perms PermissionServiceInterface,
	mailer IMailService,
	log *zap.Logger,
) WarikanServiceInterface {
	return &WarikanService{
		planRepo:    planRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		perms:       perms,
		mailer:      mailer,
		log:         log,
	}
}

// SplitEvenly divides total yen between n people. The first total%n shares
// carry one extra yen so the shares always add up to total.
func SplitEvenly(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	per, rem := total/int64(n), total%int64(n)
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = per
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares
}

func (w *WarikanService) Warikan(ctx context.Context, planID, userID uuid.UUID) (*response_models.WarikanResponse, error) {
	if _, err := w.perms.RequireMember(ctx, planID, userID); err != nil {
		return nil, err
	}
	if _, err := requirePlan(ctx, w.planRepo, planID); err != nil {
		return nil, err
	}
	return w.compute(ctx, planID)
}

// NotifyWarikan mails each member their share. Failed sends are counted and
// logged.
func (w *WarikanService) NotifyWarikan(ctx context.Context, planID, userID uuid.UUID) (*response_models.WarikanNotifyResponse, error) {
	if _, err := w.perms.RequireOwnerOrEditor(ctx, planID, userID); err != nil {
		return nil, err
	}
	plan, err := requirePlan(ctx, w.planRepo, planID)
	if err != nil {
		return nil, err
	}
	split, err := w.compute(ctx, planID)
	if err != nil {
		return nil, err
	}

	out := &response_models.WarikanNotifyResponse{}
	for _, share := range split.Shares {
		err := w.mailer.SendWarikanNotice(share.Email, share.Nickname, plan.Title, share.Amount, split.Total, split.MemberCount)
		if err != nil {
			out.Failed++
			w.log.Warn("warikan notice not sent",
				zap.String("plan_id", planID.String()),
				zap.String("user_id", share.UserID),
				zap.Error(err))
			continue
		}
		out.Sent++
	}
	return out, nil
}

func (w *WarikanService) compute(ctx context.Context, planID uuid.UUID) (*response_models.WarikanResponse, error) {
	members, err := w.memberRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	total, err := w.expenseRepo.SumByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}

	out := &response_models.WarikanResponse{
		PlanID:      planID.String(),
		Total:       total,
		MemberCount: len(members),
		Shares:      make([]response_models.WarikanShare, 0, len(members)),
	}
	if len(members) == 0 {
		return out, nil
	}
	out.PerPerson = total / int64(len(members))
	out.Remainder = total % int64(len(members))

	// members come owner first, so the owner absorbs the first extra yen
	for i, amount := range SplitEvenly(total, len(members)) {
		m := members[i]
		out.Shares = append(out.Shares, response_models.WarikanShare{
			UserID:   m.UserID.String(),
			Nickname: m.User.Nickname,
			Email:    m.User.Email,
			Role:     string(m.Role),
			Amount:   amount,
		})
	}
	return out, nil
}
