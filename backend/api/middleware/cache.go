package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/v-wei40680/mcp-linker/backend/common"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "mcp-linker-cache:v2:"

// cacheKey hashes the normalized query signature (plus the viewer id, since
// responses carry viewer-specific favorite flags) under the concrete request
// path. The raw path is used rather than the route template so requests for
// different path parameters never share an entry.
func cacheKey(c *gin.Context) string {
	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sig strings.Builder
	for _, k := range keys {
		sig.WriteString(k)
		sig.WriteString("=")
		sig.WriteString(strings.Join(query[k], ","))
		sig.WriteString("&")
	}
	sig.WriteString("viewer=")
	sig.WriteString(CurrentUserID(c))

	sum := md5.Sum([]byte(sig.String()))
	return cachePrefix + c.Request.URL.Path + ":" + hex.EncodeToString(sum[:])[:12]
}

type cacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// CacheResponse caches successful GET responses in Redis for the given TTL.
// Purely a performance layer: with Redis disabled (or failing) every request
// falls through to the handler.
func CacheResponse(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !common.RedisEnabled || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		cached, err := common.RDB.Get(c.Request.Context(), key).Result()
		if err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}
		if err != redis.Nil {
			common.SysError("cache lookup failed: " + err.Error())
		}

		writer := &cacheWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			err := common.RDB.Set(c.Request.Context(), key, writer.body.String(), ttl).Err()
			if err != nil {
				common.SysError("cache store failed: " + err.Error())
			}
		}
	}
}
