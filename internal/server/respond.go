package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vmihailenco/msgpack/v5"
)

const mimeMsgpack = "application/msgpack"

// respond writes payload as msgpack when the client asks for it and as JSON
// otherwise. Struct fields are named by their json tags in both encodings.
func respond(c *gin.Context, code int, payload any) {
	if !strings.Contains(c.GetHeader("Accept"), mimeMsgpack) {
		c.JSON(code, payload)
		return
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode response"})
		return
	}
	c.Data(code, mimeMsgpack, buf.Bytes())
}

func respondWithError(c *gin.Context, code int, message string) {
	respond(c, code, gin.H{"error": message})
}
