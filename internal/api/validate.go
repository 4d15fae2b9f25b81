package api

import (
	"fmt"
	"net/url"
	"regexp"

	"loadplan/internal/model"
	"loadplan/internal/webhooks"
)

var planDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func validateSolveRequest(req *model.SolveRequest) error {
	if req.PlanDate != "" && !planDateRe.MatchString(req.PlanDate) {
		return fmt.Errorf("planDate must be YYYY-MM-DD: %q", req.PlanDate)
	}
	return nil
}

var knownEvents = map[string]struct{}{
	webhooks.EventPlanCompleted: {},
}

func validateSubscriptionRequest(req *model.SubscriptionRequest) error {
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) URL: %q", req.URL)
	}
	if len(req.Events) == 0 {
		return fmt.Errorf("events must not be empty")
	}
	for _, e := range req.Events {
		if _, ok := knownEvents[e]; !ok {
			return fmt.Errorf("unknown event type: %s", e)
		}
	}
	return nil
}
