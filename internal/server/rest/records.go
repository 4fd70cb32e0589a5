package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/dmitrijs2005/gpatracker/internal/server/models"
)

// errMissingClaims means the auth middleware did not run for a data route.
var errMissingClaims = fmt.Errorf("%w: no session claims on request", common.ErrUnauthenticated)

// tenant returns the caller's tenant from the session claims.
func (s *Server) tenant(c *gin.Context) (string, bool) {
	claims := claimsFrom(c)
	if claims == nil {
		s.respondError(c, errMissingClaims, "")
		return "", false
	}
	return claims.TenantName, true
}

func (s *Server) recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(c, common.NewInputError("Invalid record id", fmt.Errorf("id %q", c.Param("id"))), "")
		return 0, false
	}
	return id, true
}

func (s *Server) bindRecord(c *gin.Context) (models.RecordInput, bool) {
	var in models.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.respondError(c, common.NewInputError(common.DescribeInvalid(err), err), "")
		return in, false
	}
	return in, true
}

func (s *Server) listRecords(c *gin.Context) {
	tenant, ok := s.tenant(c)
	if !ok {
		return
	}

	items, err := s.records.List(c.Request.Context(), tenant)
	if err != nil {
		s.respondError(c, err, "Failed to fetch data")
		return
	}
	if items == nil {
		items = []*models.ClassRecord{}
	}

	c.JSON(http.StatusOK, items)
}

func (s *Server) createRecord(c *gin.Context) {
	tenant, ok := s.tenant(c)
	if !ok {
		return
	}
	in, ok := s.bindRecord(c)
	if !ok {
		return
	}

	rec, err := s.records.Create(c.Request.Context(), tenant, in)
	if err != nil {
		s.respondError(c, err, "Failed to add class")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) updateRecord(c *gin.Context) {
	tenant, ok := s.tenant(c)
	if !ok {
		return
	}
	id, ok := s.recordID(c)
	if !ok {
		return
	}
	in, ok := s.bindRecord(c)
	if !ok {
		return
	}

	rec, err := s.records.Update(c.Request.Context(), tenant, id, in)
	if err != nil {
		s.respondError(c, err, "Failed to update data")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) deleteRecord(c *gin.Context) {
	tenant, ok := s.tenant(c)
	if !ok {
		return
	}
	id, ok := s.recordID(c)
	if !ok {
		return
	}

	if err := s.records.Delete(c.Request.Context(), tenant, id); err != nil {
		s.respondError(c, err, "Failed to delete data")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Data deleted successfully"})
}

func (s *Server) aggregate(c *gin.Context) {
	tenant, ok := s.tenant(c)
	if !ok {
		return
	}

	agg, err := s.records.Aggregate(c.Request.Context(), tenant)
	if err != nil {
		s.respondError(c, err, "Failed to calculate GPA")
		return
	}

	c.JSON(http.StatusOK, agg)
}
