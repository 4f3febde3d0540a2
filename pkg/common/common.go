package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/random"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

const defaultSecretSalt = "motosync-secret"

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func getSnowflakeNode() *snowflake.Node {
	snowflakeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(fmt.Sprintf("snowflake node init: %v", err))
		}
		snowflakeNode = node
	})
	return snowflakeNode
}

// UUIDint64 returns a new snowflake-based int64 identifier.
func UUIDint64() int64 {
	return getSnowflakeNode().Generate().Int64()
}

// UUID returns a new snowflake-based identifier string.
func UUID() string {
	return getSnowflakeNode().Generate().String()
}

// Sha256HashWithSalt hashes src with the given salt appended.
func Sha256HashWithSalt(src, salt string) string {
	h := sha256.New()
	h.Write([]byte(src + salt))
	return hex.EncodeToString(h.Sum(nil))
}

// GetSecretSalt returns the password salt, overridable via environment.
func GetSecretSalt() string {
	if salt := os.Getenv("MOTOSYNC_SECRET_SALT"); salt != "" {
		return salt
	}
	return defaultSecretSalt
}

// RandomToken returns an alphanumeric token of n characters.
func RandomToken(n uint8) string {
	return random.String(n, random.Alphanumeric)
}
