package endpoint

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ariebrainware/sisreg/config"
	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func getServiceOrRespond(c *gin.Context) (*referral.Service, bool) {
	svc := middleware.GetService(c)
	if svc == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Referral service not available", Err: fmt.Errorf("service is nil")})
		return nil, false
	}
	return svc, true
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context, entity string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s ID", entity),
			Err: fmt.Errorf("%s id must be a positive integer", entity),
		})
		return 0, false
	}
	return uint(id), true
}

// respondError maps a referral error kind to its HTTP status.
func respondError(c *gin.Context, msg string, err error) {
	params := util.APIErrorParams{Msg: msg, Err: err}
	switch referral.KindOf(err) {
	case referral.KindAuthorization:
		util.CallForbidden(c, params)
	case referral.KindValidation:
		util.CallUserError(c, params)
	case referral.KindNotFound:
		util.CallErrorNotFound(c, params)
	case referral.KindConflict:
		util.CallConflict(c, params)
	default:
		util.CallServerError(c, params)
	}
}

type pagination struct {
	Limit  int
	Offset int
}

func parsePagination(c *gin.Context) pagination {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return pagination{Limit: limit, Offset: offset}
}

// queryInt parses an optional integer query parameter. Missing means 0.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s", key),
			Err: fmt.Errorf("%s must be an integer", key),
		})
		return 0, false
	}
	return v, true
}

func queryUint(c *gin.Context, key string) (uint, bool) {
	v, ok := queryInt(c, key)
	if !ok {
		return 0, false
	}
	if v < 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s", key),
			Err: fmt.Errorf("%s must not be negative", key),
		})
		return 0, false
	}
	return uint(v), true
}

// periodFromQuery resolves ?year=&month=, defaulting to the current month.
func periodFromQuery(c *gin.Context, svc *referral.Service) (referral.Period, bool) {
	year, ok := queryInt(c, "year")
	if !ok {
		return referral.Period{}, false
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return referral.Period{}, false
	}
	p, err := referral.ResolvePeriod(year, month, svc.Now())
	if err != nil {
		respondError(c, "Invalid reporting period", err)
		return referral.Period{}, false
	}
	return p, true
}

// formFile reads an optional multipart file. A missing field yields nil.
func formFile(c *gin.Context, field string) (*referral.FileUpload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	if limit := config.LoadConfig().UploadMaxBytes; limit > 0 && fh.Size > limit {
		return nil, func() {}, fmt.Errorf("%s exceeds the %d byte limit", field, limit)
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*referral.FileUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &referral.FileUpload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
