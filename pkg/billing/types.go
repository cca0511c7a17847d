package billing

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
)

// CostMetric is the Cost Explorer metric every query reads.
const CostMetric = "AmortizedCost"

// CostExplorerAPI is the subset of the Cost Explorer client the fetcher uses.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// BudgetsAPI is the subset of the AWS Budgets client the fetcher uses.
type BudgetsAPI interface {
	DescribeBudget(ctx context.Context, params *budgets.DescribeBudgetInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetOutput, error)
}
