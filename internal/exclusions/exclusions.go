package exclusions

import (
	"go.uber.org/zap"
)

// Checker reports whether a user is excluded from reminder mails, e.g.
// part-timers and long-term leave whose low presence is expected.
type Checker struct {
	userIDs map[int]struct{}
	logger  *zap.Logger
}

// NewChecker creates a checker for the given user IDs.
func NewChecker(userIDs []int, logger *zap.Logger) *Checker {
	ids := make(map[int]struct{}, len(userIDs))
	for _, id := range userIDs {
		ids[id] = struct{}{}
	}

	if len(ids) > 0 && logger != nil {
		logger.Info("Initialized reminder exclusions", zap.Ints("user_ids", userIDs))
	}

	return &Checker{
		userIDs: ids,
		logger:  logger,
	}
}

// IsExcluded reports whether the user should never receive reminders. A nil
// checker excludes nobody.
func (c *Checker) IsExcluded(userID int) bool {
	if c == nil || len(c.userIDs) == 0 {
		return false
	}

	_, excluded := c.userIDs[userID]
	if excluded && c.logger != nil {
		c.logger.Debug("User is excluded from reminders", zap.Int("user_id", userID))
	}
	return excluded
}
