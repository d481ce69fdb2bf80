package sales

import "errors"

var ErrGoalNotFound = errors.New("goal not found")
