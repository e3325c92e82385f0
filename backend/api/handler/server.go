package handler

import (
	"encoding/json"
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/api/middleware"
	"github.com/v-wei40680/mcp-linker/backend/common"
	apierrors "github.com/v-wei40680/mcp-linker/backend/common/errors"
	"github.com/v-wei40680/mcp-linker/backend/model"
	"github.com/v-wei40680/mcp-linker/backend/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServerListQuery binds and bounds-checks the catalog listing parameters.
// category_id is a 1-based index into the fixed category list and, when
// present, overrides cat.
type ServerListQuery struct {
	Page             int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size,default=10" binding:"omitempty,min=1,max=20"`
	Cat              string `form:"cat"`
	CategoryID       int    `form:"category_id" binding:"omitempty,min=1"`
	Sort             string `form:"sort,default=github_stars"`
	Direction        string `form:"direction,default=desc" binding:"omitempty,oneof=asc desc"`
	Search           string `form:"search" binding:"omitempty,min=2,max=100"`
	Developer        string `form:"developer" binding:"omitempty,max=100"`
	IncludeRelations bool   `form:"include_relations,default=true"`
	NeedTotal        bool   `form:"need_total"`
}

// ServerListResponse is the paged catalog envelope.
type ServerListResponse struct {
	Version  string          `json:"version"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasNext  bool            `json:"has_next"`
	HasPrev  bool            `json:"has_prev"`
	Total    *int64          `json:"total"`
	Servers  []*model.Server `json:"servers"`
}

const listVersion = "2025-05-22-ultra"

func bindListQuery(c *gin.Context) (*ServerListQuery, bool) {
	var q ServerListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			common.RespValidationError(c, err)
		} else {
			common.RespErrorStr(c, http.StatusBadRequest, err.Error())
		}
		return nil, false
	}
	if q.CategoryID > 0 {
		cat, ok := common.CategoryByIndex(q.CategoryID)
		if !ok {
			common.RespAPIError(c, apierrors.BadRequest(apierrors.ErrCategoryNotFound, "Invalid category_id"))
			return nil, false
		}
		q.Cat = cat
	}
	return &q, true
}

func pageResponse(page service.PageResult[*model.Server]) ServerListResponse {
	return ServerListResponse{
		Version:  listVersion,
		Page:     page.Page,
		PageSize: page.PageSize,
		HasNext:  page.HasNext,
		HasPrev:  page.HasPrev,
		Total:    page.Total,
		Servers:  page.Items,
	}
}

// GetServers handles the main catalog listing, with optional search,
// category/developer filters and sorting.
func GetServers(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}

	listing := service.NewListingService(model.DB)
	page, err := listing.List(c.Request.Context(), service.ListParams{
		Page:             q.Page,
		PageSize:         q.PageSize,
		Cat:              q.Cat,
		Developer:        q.Developer,
		Search:           q.Search,
		Sort:             q.Sort,
		Direction:        q.Direction,
		IncludeRelations: q.IncludeRelations,
		NeedTotal:        q.NeedTotal,
		ViewerID:         middleware.CurrentUserID(c),
	})
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to list servers", err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

// GetServersMinimal is the fast variant returning only the basic columns.
func GetServersMinimal(c *gin.Context) {
	var q struct {
		Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
		PageSize  int    `form:"page_size,default=10" binding:"omitempty,min=1,max=100"`
		Cat       string `form:"cat"`
		Sort      string `form:"sort,default=github_stars"`
		Direction string `form:"direction,default=desc" binding:"omitempty,oneof=asc desc"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespValidationError(c, err)
		return
	}

	listing := service.NewListingService(model.DB)
	page, err := listing.ListMinimal(c.Request.Context(), q.Page, q.PageSize, q.Cat, q.Sort, q.Direction)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to list servers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":   "2025-05-22-minimal",
		"page":      page.Page,
		"page_size": page.PageSize,
		"has_next":  page.HasNext,
		"has_prev":  page.HasPrev,
		"servers":   page.Items,
	})
}

// GetRecommendedServers returns the fixed editorial picks.
func GetRecommendedServers(c *gin.Context) {
	rec := service.NewRecommendationService(model.DB)
	servers, err := rec.ByNames(c.Request.Context(), []string{"blender", "context7"}, middleware.CurrentUserID(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to load recommended servers", err)
		return
	}
	total := int64(len(servers))
	c.JSON(http.StatusOK, ServerListResponse{
		Version:  listVersion,
		Page:     1,
		PageSize: len(servers),
		HasNext:  false,
		HasPrev:  false,
		Total:    &total,
		Servers:  servers,
	})
}

// GetServerCount returns the total number of catalog entries.
func GetServerCount(c *gin.Context) {
	count, err := model.CountServers()
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to count servers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": count})
}

// serverDetail is a Server plus its stored configs.
type serverDetail struct {
	*model.Server
	ServerConfigs []*model.ServerConfig `json:"server_configs"`
}

func respondServerDetail(c *gin.Context, server *model.Server) {
	configs, err := model.GetConfigsByServerID(server.ID)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to load server configs", err)
		return
	}
	service.Counters().Enqueue(server.ID, service.CounterViews)
	c.JSON(http.StatusOK, serverDetail{Server: server, ServerConfigs: configs})
}

// GetServerByID looks up one server by UUID and records a view.
func GetServerByID(c *gin.Context) {
	id := c.Param("server_id")
	if _, err := uuid.Parse(id); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "Invalid server id")
		return
	}
	server, err := model.GetServerByID(id)
	if err != nil {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrServerNotFound, "Server not found"))
		return
	}
	respondServerDetail(c, server)
}

// GetServerByQualifiedName resolves a "developer/name" path and records a
// view. The wildcard match keeps the slash inside the qualified name.
func GetServerByQualifiedName(c *gin.Context) {
	qualified := c.Param("qualified_name")
	if len(qualified) > 0 && qualified[0] == '/' {
		qualified = qualified[1:]
	}
	if qualified == "" {
		common.RespErrorStr(c, http.StatusBadRequest, "Missing qualified name")
		return
	}
	server, err := model.GetServerByQualifiedName(qualified)
	if err != nil {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrServerNotFound, "Server not found"))
		return
	}
	respondServerDetail(c, server)
}

// ServerUpsertRequest is the create/update body. Config entries are stored
// verbatim as child rows; their shape ("command"+args or "url"+type) is not
// interpreted here.
type ServerUpsertRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Description string            `json:"description" binding:"required"`
	Source      string            `json:"source" binding:"required"`
	Cat         string            `json:"cat" binding:"required"`
	Developer   string            `json:"developer" binding:"omitempty,max=100"`
	Tags        []string          `json:"tags"`
	Configs     []json.RawMessage `json:"configs"`
}

// CreateServer registers a new catalog entry owned by the viewer.
func CreateServer(c *gin.Context) {
	var req ServerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespValidationError(c, err)
		return
	}
	if !common.IsValidCategory(req.Cat) {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrCategoryNotFound, "Category not found"))
		return
	}

	user := middleware.CurrentUser(c)
	if req.Developer == "" {
		req.Developer = user.Fullname
	}

	server := &model.Server{
		Name:          req.Name,
		QualifiedName: req.Developer + "/" + req.Name,
		Description:   req.Description,
		Source:        req.Source,
		Developer:     req.Developer,
		Cat:           req.Cat,
		Tags:          req.Tags,
		UserID:        user.ID,
	}

	err := model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(server).Error; err != nil {
			return err
		}
		return model.CreateServerConfigs(tx, server.ID, req.Configs)
	})
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to create server", err)
		return
	}

	configs, err := model.GetConfigsByServerID(server.ID)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to load server configs", err)
		return
	}
	common.RespCreated(c, serverDetail{Server: server, ServerConfigs: configs})
}

// UpdateServer rewrites a server's fields; when configs are supplied the
// stored rows are replaced wholesale.
func UpdateServer(c *gin.Context) {
	id := c.Param("server_id")
	var req ServerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespValidationError(c, err)
		return
	}
	if !common.IsValidCategory(req.Cat) {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrCategoryNotFound, "Category not found"))
		return
	}

	server, err := model.GetServerByID(id)
	if err != nil {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrServerNotFound, "Server not found"))
		return
	}

	server.Name = req.Name
	server.Description = req.Description
	server.Source = req.Source
	server.Cat = req.Cat
	if req.Developer != "" {
		server.Developer = req.Developer
	}
	server.QualifiedName = server.Developer + "/" + server.Name
	server.Tags = req.Tags

	err = model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(server).Error; err != nil {
			return err
		}
		if len(req.Configs) > 0 {
			if err := model.DeleteServerConfigs(tx, server.ID); err != nil {
				return err
			}
			return model.CreateServerConfigs(tx, server.ID, req.Configs)
		}
		return nil
	})
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to update server", err)
		return
	}

	configs, err := model.GetConfigsByServerID(server.ID)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to load server configs", err)
		return
	}
	common.RespSuccess(c, serverDetail{Server: server, ServerConfigs: configs})
}

// DeleteServer removes a server the viewer owns, configs first because of
// the foreign key.
func DeleteServer(c *gin.Context) {
	id := c.Param("server_id")
	server, err := model.GetServerByID(id)
	if err != nil {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrServerNotFound, "Server not found"))
		return
	}
	if server.UserID != middleware.CurrentUserID(c) {
		common.RespAPIError(c, apierrors.Forbidden(apierrors.ErrNotServerOwner, "Not authorized to delete this server"))
		return
	}

	err = model.DB.Transaction(func(tx *gorm.DB) error {
		if err := model.DeleteServerConfigs(tx, server.ID); err != nil {
			return err
		}
		return tx.Delete(&model.Server{}, "id = ?", server.ID).Error
	})
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to delete server", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMyServers lists the servers owned by the viewer.
func GetMyServers(c *gin.Context) {
	servers, err := model.GetServersByUserID(middleware.CurrentUserID(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to list servers", err)
		return
	}
	total := int64(len(servers))
	c.JSON(http.StatusOK, ServerListResponse{
		Version:  listVersion,
		Page:     1,
		PageSize: len(servers),
		HasNext:  false,
		HasPrev:  false,
		Total:    &total,
		Servers:  servers,
	})
}

// GetServerConfigs returns the first stored config payload for a server.
func GetServerConfigs(c *gin.Context) {
	serverID := c.Query("server_id")
	if serverID == "" {
		common.RespErrorStr(c, http.StatusBadRequest, "server_id is required")
		return
	}
	config, err := model.GetFirstConfigByServerID(serverID)
	if err != nil {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrServerConfigNotFound, "Server config not found"))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", config.Items())
}
