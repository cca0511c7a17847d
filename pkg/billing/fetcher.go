package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"
	"github.com/taiiii123/discord-billing-notify/pkg/model"
)

// ErrEmptyResult is returned when Cost Explorer answers without a time bucket.
var ErrEmptyResult = errors.New("cost explorer returned no results")

// Fetcher reads billing and budget data from AWS.
type Fetcher struct {
	ce      CostExplorerAPI
	budgets BudgetsAPI
}

// NewFetcher creates a fetcher over the given clients.
func NewFetcher(ce CostExplorerAPI, b BudgetsAPI) *Fetcher {
	return &Fetcher{ce: ce, budgets: b}
}

// NewFetcherFromConfig creates a fetcher with SDK clients built from cfg.
func NewFetcherFromConfig(cfg aws.Config) *Fetcher {
	return NewFetcher(costexplorer.NewFromConfig(cfg), budgets.NewFromConfig(cfg))
}

// FetchTotal returns the amortized cost over r.
func (f *Fetcher) FetchTotal(ctx context.Context, r model.DateRange) (*model.TotalBilling, error) {
	output, err := f.ce.GetCostAndUsage(ctx, costInput(r, nil))
	if err != nil {
		return nil, fmt.Errorf("get total cost: %w", err)
	}
	if len(output.ResultsByTime) == 0 {
		return nil, ErrEmptyResult
	}

	result := output.ResultsByTime[0]
	start, end, err := parsePeriod(result.TimePeriod)
	if err != nil {
		return nil, err
	}

	metric, ok := result.Total[CostMetric]
	if !ok {
		return nil, fmt.Errorf("total has no %s metric", CostMetric)
	}
	amount, err := parseAmount(metric.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse total amount: %w", err)
	}

	return &model.TotalBilling{
		Start:  start,
		End:    end,
		Amount: amount,
		Unit:   aws.ToString(metric.Unit),
	}, nil
}

// FetchByService returns the amortized cost over r per AWS service, in the
// order Cost Explorer returned the groups.
func (f *Fetcher) FetchByService(ctx context.Context, r model.DateRange) ([]model.ServiceBilling, error) {
	groupBy := []types.GroupDefinition{
		{
			Type: types.GroupDefinitionTypeDimension,
			Key:  aws.String(string(types.DimensionService)),
		},
	}

	output, err := f.ce.GetCostAndUsage(ctx, costInput(r, groupBy))
	if err != nil {
		return nil, fmt.Errorf("get cost by service: %w", err)
	}
	if len(output.ResultsByTime) == 0 {
		return nil, ErrEmptyResult
	}

	groups := output.ResultsByTime[0].Groups
	billings := make([]model.ServiceBilling, 0, len(groups))
	for _, g := range groups {
		if len(g.Keys) == 0 {
			return nil, fmt.Errorf("cost group without service key")
		}
		metric, ok := g.Metrics[CostMetric]
		if !ok {
			return nil, fmt.Errorf("group %q has no %s metric", g.Keys[0], CostMetric)
		}
		amount, err := parseAmount(metric.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount for %q: %w", g.Keys[0], err)
		}
		billings = append(billings, model.ServiceBilling{
			ServiceName: g.Keys[0],
			Amount:      amount,
			Unit:        aws.ToString(metric.Unit),
		})
	}
	return billings, nil
}

// FetchBudget returns the configured limit of the named budget.
func (f *Fetcher) FetchBudget(ctx context.Context, accountID, budgetName string) (*model.Budget, error) {
	output, err := f.budgets.DescribeBudget(ctx, &budgets.DescribeBudgetInput{
		AccountId:  aws.String(accountID),
		BudgetName: aws.String(budgetName),
	})
	if err != nil {
		return nil, fmt.Errorf("describe budget %q: %w", budgetName, err)
	}
	if output.Budget == nil || output.Budget.BudgetLimit == nil {
		return nil, fmt.Errorf("budget %q has no limit", budgetName)
	}

	limit, err := parseAmount(output.Budget.BudgetLimit.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse limit of budget %q: %w", budgetName, err)
	}

	return &model.Budget{
		Name:  budgetName,
		Limit: limit,
		Unit:  aws.ToString(output.Budget.BudgetLimit.Unit),
	}, nil
}

func costInput(r model.DateRange, groupBy []types.GroupDefinition) *costexplorer.GetCostAndUsageInput {
	return &costexplorer.GetCostAndUsageInput{
		Granularity: types.GranularityMonthly,
		TimePeriod: &types.DateInterval{
			Start: aws.String(r.StartString()),
			End:   aws.String(r.EndString()),
		},
		Metrics: []string{CostMetric},
		GroupBy: groupBy,
	}
}

func parsePeriod(p *types.DateInterval) (start, end time.Time, err error) {
	if p == nil {
		return start, end, fmt.Errorf("result has no time period")
	}
	start, err = time.Parse(model.DateLayout, aws.ToString(p.Start))
	if err != nil {
		return start, end, fmt.Errorf("failed to parse start time: %w", err)
	}
	end, err = time.Parse(model.DateLayout, aws.ToString(p.End))
	if err != nil {
		return start, end, fmt.Errorf("failed to parse end time: %w", err)
	}
	return start, end, nil
}

func parseAmount(s *string) (decimal.Decimal, error) {
	if s == nil {
		return decimal.Zero, fmt.Errorf("missing amount")
	}
	return decimal.NewFromString(*s)
}
