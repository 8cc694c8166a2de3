package diff

import (
	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patch returns the diff-match-patch text patch turning before into after.
// An empty string means the texts are equal.
// Patch 计算 before 到 after 的文本补丁，内容相同时返回空字符串
func Patch(before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}

// Apply applies a patch produced by Patch to base.
// Apply 将补丁应用到 base，任一片段失败时返回错误
func Apply(base, patchText string) (string, error) {
	if patchText == "" {
		return base, nil
	}
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patchText)
	if err != nil {
		return "", errors.Wrap(err, "parse patch")
	}
	out, applied := dmp.PatchApply(patches, base)
	for i, ok := range applied {
		if !ok {
			return "", errors.Errorf("patch hunk %d did not apply", i)
		}
	}
	return out, nil
}
