package convert

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// Copy deep-copies same-named fields from src into dst.
// dst 目标结构体，src 源结构体
func Copy(dst any, src any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true, IgnoreEmpty: false}); err != nil {
		return errors.Wrap(err, "copy struct")
	}
	return nil
}
