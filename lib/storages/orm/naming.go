package orm

import (
	"strings"

	"gorm.io/gorm/schema"
)

type NamingStrategy struct {
	schema.NamingStrategy
}

func (n NamingStrategy) TableName(str string) string {
	return n.NamingStrategy.TableName(strings.TrimPrefix(str, "sql"))
}
