package taxonomy

// cityProvince maps the cities where the new energy and semiconductor
// industries cluster to their province-level division.
var cityProvince = map[string]string{
	// Municipalities.
	"北京": "北京市", "上海": "上海市", "天津": "天津市", "重庆": "重庆市",

	"苏州": "江苏省", "南京": "江苏省", "无锡": "江苏省", "常州": "江苏省",
	"南通": "江苏省", "徐州": "江苏省", "扬州": "江苏省", "盐城": "江苏省",

	"深圳": "广东省", "广州": "广东省", "东莞": "广东省", "佛山": "广东省",
	"惠州": "广东省", "珠海": "广东省",

	"杭州": "浙江省", "宁波": "浙江省", "温州": "浙江省", "嘉兴": "浙江省",
	"绍兴": "浙江省",

	"合肥": "安徽省", "芜湖": "安徽省", "滁州": "安徽省",

	"成都": "四川省", "宜宾": "四川省", "绵阳": "四川省",

	"西安": "陕西省", "咸阳": "陕西省",

	"长沙": "湖南省", "株洲": "湖南省",

	"武汉": "湖北省", "宜昌": "湖北省",

	"宁德": "福建省", "福州": "福建省", "厦门": "福建省",

	"青岛": "山东省", "济南": "山东省", "烟台": "山东省",

	"宜春": "江西省", "南昌": "江西省", "赣州": "江西省",

	// Other provincial capitals.
	"郑州": "河南省", "石家庄": "河北省", "太原": "山西省",
	"沈阳": "辽宁省", "大连": "辽宁省", "长春": "吉林省", "哈尔滨": "黑龙江省",
	"贵阳": "贵州省", "昆明": "云南省", "兰州": "甘肃省", "银川": "宁夏回族自治区",
	"乌鲁木齐": "新疆维吾尔自治区", "呼和浩特": "内蒙古自治区",
}

var regionProvinces = map[string][]string{
	"华北": {"北京市", "天津市", "河北省", "山西省", "内蒙古自治区"},
	"华东": {"上海市", "江苏省", "浙江省", "安徽省", "福建省", "江西省", "山东省"},
	"华南": {"广东省", "广西壮族自治区", "海南省"},
	"华中": {"河南省", "湖北省", "湖南省"},
	"西南": {"重庆市", "四川省", "贵州省", "云南省", "西藏自治区"},
	"西北": {"陕西省", "甘肃省", "青海省", "宁夏回族自治区", "新疆维吾尔自治区"},
	"东北": {"辽宁省", "吉林省", "黑龙江省"},
}

// provinceRegion is the inverse of regionProvinces.
var provinceRegion = func() map[string]string {
	m := make(map[string]string)
	for region, provinces := range regionProvinces {
		for _, p := range provinces {
			m[p] = region
		}
	}
	return m
}()

// chainSubStages lists the detailed industry chain stages of each category.
var chainSubStages = map[string][]string{
	"上游": {"上游-原材料", "上游-设备", "上游-零部件"},
	"中游": {"中游-制造", "中游-封装", "中游-组装"},
	"下游": {"下游-应用", "下游-销售", "下游-服务"},
}

// chainCategories fixes the order in which categories are matched.
var chainCategories = []string{"上游", "中游", "下游"}
