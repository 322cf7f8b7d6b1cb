package db

import (
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// chave do handle do gorm dentro do contexto do gin
const contextDBKey = "amigosecreto_db"

// SetDBtoContext injeta o *gorm.DB compartilhado em cada request. Os
// handlers leem de volta com DBInstance em vez de depender de globals.
func SetDBtoContext(database *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextDBKey, database)
		c.Next()
	}
}

// DBInstance devolve o handle injetado, ou nil se o middleware não rodou.
func DBInstance(c *gin.Context) *gorm.DB {
	v, ok := c.Get(contextDBKey)
	if !ok {
		return nil
	}
	database, _ := v.(*gorm.DB)
	return database
}
