package apihelpers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const MAX_PAGE_LIMIT = 100

type PagenatedQuery struct {
	Page  int64
	Limit int64
}

func ParsePaginatedQueryFromCtx(c *gin.Context) (*PagenatedQuery, error) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		return nil, err
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil {
		return nil, err
	}

	if page < 1 || limit < 1 {
		return nil, errors.New("page and limit must be positive")
	}
	if limit > MAX_PAGE_LIMIT {
		limit = MAX_PAGE_LIMIT
	}

	return &PagenatedQuery{
		Page:  page,
		Limit: limit,
	}, nil
}
