package i18n

type translation struct {
	zh string
	en string
}

var messages = map[string]translation{
	"yes":   {"是", "yes"},
	"no":    {"否", "no"},
	"total": {"共 %d 条", "%d total"},

	"header.id":             {"编号", "ID"},
	"header.code":           {"代码", "Code"},
	"header.name":           {"名称", "Name"},
	"header.parent":         {"上级", "Parent"},
	"header.active":         {"启用", "Active"},
	"header.order":          {"顺序", "Order"},
	"header.schema":         {"方案", "Schema"},
	"header.item":           {"条目", "Item"},
	"header.fond":           {"全宗", "Fond"},
	"header.classification": {"分类", "Classification"},
	"header.series":         {"类目", "Series"},
	"header.file":           {"案卷", "File"},
	"header.path":           {"路径", "Path"},
	"header.prefix":         {"前缀", "Prefix"},
	"header.next":           {"下一值", "Next"},
	"header.digits":         {"位数", "Digits"},
	"header.created_at":     {"创建时间", "Created"},
	"header.created_by":     {"创建人", "Created by"},
	"header.last_opened":    {"最近打开", "Last opened"},
	"header.inserted":       {"新增", "Inserted"},

	"library.added":       {"已添加档案库 %s（%s）", "Added library %s (%s)"},
	"library.removed":     {"已移除档案库 %s，目录保留在磁盘上", "Removed library %s; its folder stays on disk"},
	"library.renamed":     {"已将档案库 %s 重命名为 %s", "Renamed library %s to %s"},
	"library.none":        {"尚未登记档案库，请先执行 fondspod library add", "No library registered; run fondspod library add first"},
	"library.cleared":     {"已清空档案库 %s", "Cleared library %s"},
	"library.clear_force": {"清空会删除全部档案记录，请使用 --force 确认", "Clearing removes every archive record; pass --force to confirm"},

	"classification.created":        {"已创建分类 %s", "Created classification %s"},
	"classification.activated":      {"已启用分类 %s", "Activated classification %s"},
	"classification.deactivated":    {"已停用分类 %s", "Deactivated classification %s"},
	"classification.deleted":        {"已删除分类 %s", "Deleted classification %s"},
	"classification.delete_refused": {"分类 %s 仍有下级分类或全宗，未删除", "Classification %s still has children or fonds; not deleted"},
	"classification.renamed":        {"已将分类 %s 重命名为 %s", "Renamed classification %s to %s"},
	"classification.reordered":      {"已调整分类顺序", "Reordered classifications"},
	"classification.exported":       {"已导出分类到 %s", "Exported classifications to %s"},
	"classification.imported":       {"已导入分类", "Imported classifications"},
	"classification.import_force":   {"导入会替换全部分类，请使用 --force 确认", "Import replaces every classification; pass --force to confirm"},

	"schema.created":        {"已创建方案 %s", "Created schema %s"},
	"schema.renamed":        {"已将方案 %s 重命名为 %s", "Renamed schema %s to %s"},
	"schema.deleted":        {"已删除方案 %s", "Deleted schema %s"},
	"schema.delete_refused": {"方案 %s 受保护或仍被全宗使用，未删除", "Schema %s is protected or still assigned to a fond; not deleted"},
	"schema.item_added":     {"已为方案 %s 添加条目 %s", "Added item %[2]s to schema %[1]s"},
	"schema.item_deleted":   {"已删除方案 %s 的条目 %s", "Deleted item %[2]s of schema %[1]s"},
	"schema.item_missing":   {"方案 %s 没有条目 %s", "Schema %s has no item %s"},

	"fond.created":        {"已创建全宗 %s，生成 %d 个类目", "Created fond %s with %d series"},
	"fond.deleted":        {"已删除全宗 %s", "Deleted fond %s"},
	"fond.delete_refused": {"全宗 %s 仍有案卷，未删除", "Fond %s still has files; not deleted"},
	"fond.assigned":       {"已将方案 %s 分配给全宗 %s", "Assigned schema %s to fond %s"},
	"fond.unassigned":     {"已取消全宗 %s 的方案 %s", "Unassigned schema %[2]s from fond %[1]s"},

	"series.generated":      {"全宗 %s 新增 %d 个类目", "Fond %s gained %d series"},
	"series.planned":        {"全宗 %s 共计划 %d 个类目（未写入）", "Fond %s plans %d series (dry run)"},
	"series.deleted":        {"已删除类目 %s", "Deleted series %s"},
	"series.delete_refused": {"类目 %s 仍有案卷，未删除", "Series %s still has files; not deleted"},
	"series.regenerated":    {"共新增 %s 个类目", "%s series inserted in total"},

	"file.created":        {"已创建案卷 %s，目录 %s", "Created file %s in %s"},
	"file.deleted":        {"已删除案卷 %s", "Deleted file %s"},
	"file.delete_refused": {"案卷 %s 仍有卷内文件，未删除", "File %s still has items; not deleted"},

	"item.created":        {"已添加卷内文件 %s", "Added item %s"},
	"item.created_hashed": {"已添加卷内文件 %s（SHA-256 %s）", "Added item %s (SHA-256 %s)"},
	"item.deleted":        {"已删除卷内文件 %s", "Deleted item %s"},

	"not_found": {"%s 不存在", "%s not found"},
}
