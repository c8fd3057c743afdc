package dao

import (
	"CodingTracker/common"
	"errors"
)

func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
