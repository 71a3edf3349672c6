package resource

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
)

func (r *Resource[T, P]) GetAll(c *gin.Context) {
	q, err := r.cfg.Schema.Parse(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	base, err := r.base(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := q.CheckPage(base); err != nil {
		_ = c.Error(err)
		return
	}

	list, err := r.base(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var items []T
	if err := q.Apply(preload(list, r.cfg.ListPreload)).Find(&items).Error; err != nil {
		_ = c.Error(err)
		return
	}

	docs, err := q.Project(items)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpresp.List(c, docs, len(items))
}

func (r *Resource[T, P]) GetOne(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	item, err := r.Find(c, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpresp.OK(c, gin.H{"doc": item})
}

func (r *Resource[T, P]) CreateOne(c *gin.Context) {
	item := r.cfg.New()
	if err := c.ShouldBindJSON(item); err != nil {
		_ = c.Error(err)
		return
	}
	P(item).SetPrimaryKey(uuid.New())

	if f := r.cfg.FromRequest; f != nil {
		if err := f(c, item, nil); err != nil {
			_ = c.Error(err)
			return
		}
	}

	if err := r.save(c.Request.Context(), item, true); err != nil {
		_ = c.Error(err)
		return
	}
	httpresp.Created(c, gin.H{"doc": item})
}

func (r *Resource[T, P]) UpdateOne(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	item, err := r.Lookup(c, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	stored := *item

	if err := c.ShouldBindJSON(item); err != nil {
		_ = c.Error(err)
		return
	}
	P(item).SetPrimaryKey(id)

	if f := r.cfg.FromRequest; f != nil {
		if err := f(c, item, &stored); err != nil {
			_ = c.Error(err)
			return
		}
	}

	if err := r.save(c.Request.Context(), item, false); err != nil {
		_ = c.Error(err)
		return
	}
	httpresp.OK(c, gin.H{"doc": item})
}

func (r *Resource[T, P]) DeleteOne(c *gin.Context) {
	id, err := ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctx := c.Request.Context()

	item, err := r.Lookup(c, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if r.cfg.SoftDelete != nil {
		rows, err := r.cfg.SoftDelete(r.db.WithContext(ctx), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if rows == 0 {
			_ = c.Error(r.notFound(gorm.ErrRecordNotFound))
			return
		}
		httpresp.NoContent(c)
		return
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select(clause.Associations).Delete(item).Error; err != nil {
			return err
		}
		if h := r.cfg.Hooks.AfterDelete; h != nil {
			return h(ctx, tx, item)
		}
		return nil
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	httpresp.NoContent(c)
}
