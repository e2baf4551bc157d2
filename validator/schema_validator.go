package validator

import (
	"fmt"
	"sort"
	"strings"

	"stockdash/customerrors"
	"stockdash/model"

	"github.com/Oudwins/zog"
)

var SelectionShape = zog.Shape{
	"Market": zog.String().Required(zog.Message("market is required")),
	"Stock":  zog.String().Required(zog.Message("stock is required")),
}

var RangeShape = zog.Shape{
	"Start": zog.Time().Required(zog.Message("start date is required")),
	"End":   zog.Time().Required(zog.Message("end date is required")),
}

var WindowShape = zog.Shape{
	"ShortWindow": zog.Int().GTE(model.MinWindow, zog.Message("short window must be at least 1")).
		LTE(model.MaxWindow, zog.Message("short window must be at most 200")),
	"LongWindow": zog.Int().GTE(model.MinWindow, zog.Message("long window must be at least 1")).
		LTE(model.MaxWindow, zog.Message("long window must be at most 200")),
}

var DashboardQuerySchema = zog.Struct(SelectionShape).
	Extend(RangeShape).
	Extend(WindowShape).
	TestFunc(DateOrderTest, zog.Message("start date must not be after end date"))

func DateOrderTest(dataPtr any, ctx zog.Ctx) bool {
	q, ok := dataPtr.(*model.DashboardQuery)
	if !ok {
		return true
	}
	return !q.End.Before(q.Start)
}

// ValidateDashboardQuery returns an error wrapping ErrInvalidQuery that lists
// every failed rule.
func ValidateDashboardQuery(q model.DashboardQuery) error {
	issues := DashboardQuerySchema.Validate(&q)
	if issues == nil {
		return nil
	}

	seen := map[string]bool{}
	messages := make([]string, 0)
	for _, list := range issues {
		for _, issue := range list {
			if issue == nil || seen[issue.Message] {
				continue
			}
			seen[issue.Message] = true
			messages = append(messages, issue.Message)
		}
	}
	if len(messages) == 0 {
		return nil
	}
	sort.Strings(messages)
	return fmt.Errorf("%w: %s", customerrors.ErrInvalidQuery, strings.Join(messages, "; "))
}
