// Package diff 实现员工档案的逐字段差异对比
// 差异以点分路径表示（如 bank_account.account_number），
// 审核时按路径逐条采纳或驳回
package diff

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Field 档案字段定义
// Sub 非空表示嵌套分组，对比时递归展开；否则按原子值整体对比
type Field struct {
	Name string
	Sub  []Field
}

// Schema 档案结构定义，决定哪些字段参与对比、哪些分组递归
type Schema []Field

// Change 单个字段的变更
type Change struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// Diff 对比两份档案快照，返回按点分路径索引的差异集合
// 仅结构定义内的字段参与对比；相同输入返回空集合
func Diff(schema Schema, old, new map[string]interface{}) map[string]Change {
	changes := make(map[string]Change)
	walk(schema, "", old, new, changes)
	return changes
}

func walk(schema Schema, prefix string, old, new map[string]interface{}, changes map[string]Change) {
	for _, f := range schema {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		oldVal := old[f.Name]
		newVal := new[f.Name]

		if f.Sub != nil {
			walk(f.Sub, path, asMap(oldVal), asMap(newVal), changes)
			continue
		}

		if !equal(oldVal, newVal) {
			changes[path] = Change{Old: oldVal, New: newVal}
		}
	}
}

// asMap 将分组值规整为map，非map值（含nil）按空分组处理
func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// equal 按JSON序列化结果判断两值是否等价
// 规避 int/float64、nil/空串以外的类型噪音（JSONB扫描出的数字均为float64）
func equal(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// BuildPartial 由被采纳的路径构造嵌套的部分更新
// 结果恰好包含采纳路径对应的新值，中间层对象按路径补齐；
// 不在差异集合中的路径被忽略
func BuildPartial(changes map[string]Change, accepted []string) map[string]interface{} {
	partial := make(map[string]interface{})
	for _, path := range accepted {
		change, ok := changes[path]
		if !ok {
			continue
		}
		parts := strings.Split(path, ".")
		node := partial
		for _, p := range parts[:len(parts)-1] {
			next, ok := node[p].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				node[p] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = change.New
	}
	return partial
}

// Paths 返回差异集合的路径列表，字典序排序，保证输出稳定
func Paths(changes map[string]Change) []string {
	paths := make([]string, 0, len(changes))
	for p := range changes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
