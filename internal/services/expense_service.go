package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tabi/internal/infra"
	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

type ExpenseServiceInterface interface {
	AddExpense(ctx context.Context, planID, userID uuid.UUID, req request_models.ExpenseRequest) (*response_models.ExpenseResponse, error)
	ListExpenses(ctx context.Context, planID, userID uuid.UUID) ([]response_models.ExpenseResponse, error)
	UpdateExpense(ctx context.Context, planID, expenseID, userID uuid.UUID, req request_models.UpdateExpenseRequest) (*response_models.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, planID, expenseID, userID uuid.UUID) error
	BudgetSummary(ctx context.Context, planID, userID uuid.UUID) (*response_models.BudgetSummaryResponse, error)
}

type ExpenseService struct {
	expenseRepo repositories.ExpenseRepository
	planRepo    repositories.PlanRepository
	dayRepo     repositories.DailyPlanRepository
	spotRepo    repositories.SpotRepository
	perms       PermissionServiceInterface
	tx          infra.Transactor
	log         *zap.Logger
}

func NewExpenseService(
	expenseRepo repositories.ExpenseRepository,
	planRepo repositories.PlanRepository,
	dayRepo repositories.DailyPlanRepository,
	spotRepo repositories.SpotRepository,
	perms PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
) ExpenseServiceInterface {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		planRepo:    planRepo,
		dayRepo:     dayRepo,
		spotRepo:    spotRepo,
		perms:       perms,
		tx:          tx,
		log:         log,
	}
}

func (e *ExpenseService) AddExpense(ctx context.Context, planID, userID uuid.UUID, req request_models.ExpenseRequest) (*response_models.ExpenseResponse, error) {
	item := strings.TrimSpace(req.Item)
	if item == "" {
		return nil, fmt.Errorf("expense item: %w", utils.ErrInvalidInput)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("amount: %w", utils.ErrInvalidInput)
	}
	expense := &db_models.Expense{
		PlanID:   planID,
		Item:     item,
		Amount:   req.Amount,
		Category: strings.TrimSpace(req.Category),
	}
	if req.Date != "" {
		date, err := utils.ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = date
	}

	err := e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := e.editable(ctx, planID, userID); err != nil {
			return err
		}
		if req.SpotID != nil && *req.SpotID != "" {
			spotID, err := uuid.Parse(*req.SpotID)
			if err != nil {
				return fmt.Errorf("spot_id: %w", utils.ErrInvalidInput)
			}
			if err := e.spotInPlan(ctx, planID, spotID); err != nil {
				return err
			}
			expense.SpotID = &spotID
		}
		if err := e.expenseRepo.Create(ctx, expense); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

func (e *ExpenseService) ListExpenses(ctx context.Context, planID, userID uuid.UUID) ([]response_models.ExpenseResponse, error) {
	if _, err := e.perms.RequireMember(ctx, planID, userID); err != nil {
		return nil, err
	}
	if _, err := requirePlan(ctx, e.planRepo, planID); err != nil {
		return nil, err
	}
	expenses, err := e.expenseRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := make([]response_models.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseResponse(&expenses[i]))
	}
	return out, nil
}

func (e *ExpenseService) UpdateExpense(ctx context.Context, planID, expenseID, userID uuid.UUID, req request_models.UpdateExpenseRequest) (*response_models.ExpenseResponse, error) {
	var expense *db_models.Expense
	err := e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := e.editable(ctx, planID, userID); err != nil {
			return err
		}
		var err error
		if expense, err = e.find(ctx, planID, expenseID); err != nil {
			return err
		}
		if req.Item != nil {
			item := strings.TrimSpace(*req.Item)
			if item == "" {
				return fmt.Errorf("expense item: %w", utils.ErrInvalidInput)
			}
			expense.Item = item
		}
		if req.Amount != nil {
			if *req.Amount < 0 {
				return fmt.Errorf("amount: %w", utils.ErrInvalidInput)
			}
			expense.Amount = *req.Amount
		}
		if req.Category != nil {
			expense.Category = strings.TrimSpace(*req.Category)
		}
		if req.Date != nil {
			date, err := utils.ParseDate(*req.Date)
			if err != nil {
				return err
			}
			expense.Date = date
		}
		if err := e.expenseRepo.Update(ctx, expense); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

func (e *ExpenseService) DeleteExpense(ctx context.Context, planID, expenseID, userID uuid.UUID) error {
	return e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := e.editable(ctx, planID, userID); err != nil {
			return err
		}
		expense, err := e.find(ctx, planID, expenseID)
		if err != nil {
			return err
		}
		if err := e.expenseRepo.Delete(ctx, expense.ID); err != nil {
			return utils.DBError(err)
		}
		return nil
	})
}

func (e *ExpenseService) BudgetSummary(ctx context.Context, planID, userID uuid.UUID) (*response_models.BudgetSummaryResponse, error) {
	if _, err := e.perms.RequireMember(ctx, planID, userID); err != nil {
		return nil, err
	}
	plan, err := requirePlan(ctx, e.planRepo, planID)
	if err != nil {
		return nil, err
	}
	spent, err := e.expenseRepo.SumByPlan(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	totals, err := e.expenseRepo.TotalsByCategory(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}

	out := &response_models.BudgetSummaryResponse{
		PlanID:      planID.String(),
		TotalBudget: plan.TotalBudget,
		Spent:       spent,
		Remaining:   plan.TotalBudget - spent,
		ByCategory:  make([]response_models.CategoryTotalResponse, 0, len(totals)),
	}
	for _, t := range totals {
		out.ByCategory = append(out.ByCategory, response_models.CategoryTotalResponse{Category: t.Category, Total: t.Total})
	}
	return out, nil
}

func (e *ExpenseService) editable(ctx context.Context, planID, userID uuid.UUID) error {
	if _, err := e.perms.RequireOwnerOrEditor(ctx, planID, userID); err != nil {
		return err
	}
	_, err := requirePlan(ctx, e.planRepo, planID)
	return err
}

func (e *ExpenseService) find(ctx context.Context, planID, expenseID uuid.UUID) (*db_models.Expense, error) {
	expense, err := e.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if expense == nil || expense.PlanID != planID {
		return nil, utils.ErrExpenseNotFound
	}
	return expense, nil
}

func (e *ExpenseService) spotInPlan(ctx context.Context, planID, spotID uuid.UUID) error {
	spot, err := e.spotRepo.FindByID(ctx, spotID)
	if err != nil {
		return utils.DBError(err)
	}
	if spot == nil {
		return utils.ErrSpotNotFound
	}
	day, err := e.dayRepo.FindByID(ctx, spot.DailyPlanID)
	if err != nil {
		return utils.DBError(err)
	}
	if day == nil || day.PlanID != planID {
		return utils.ErrSpotNotFound
	}
	return nil
}
