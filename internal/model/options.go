package model

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// PriceRange is a preset price filter on the browse page. Max 0 means no upper bound.
type PriceRange struct {
	Value string
	Label string
	Min   int64
	Max   int64
}

// Makes lists the car makes offered in forms and filters.
var Makes = []Option{
	{"toyota", "تويوتا"},
	{"hyundai", "هيونداي"},
	{"kia", "كيا"},
	{"nissan", "نيسان"},
	{"mercedes", "مرسيدس"},
	{"bmw", "بي إم دبليو"},
	{"audi", "أودي"},
	{"volkswagen", "فولكس فاجن"},
	{"ford", "فورد"},
	{"chevrolet", "شيفروليه"},
	{"honda", "هوندا"},
	{"mazda", "مازدا"},
	{"mitsubishi", "ميتسوبيشي"},
	{"suzuki", "سوزوكي"},
	{"peugeot", "بيجو"},
	{"renault", "رينو"},
	{"fiat", "فيات"},
	{"jeep", "جيب"},
	{"land-rover", "لاند روفر"},
	{"lexus", "لكزس"},
	{"infiniti", "إنفينيتي"},
	{"porsche", "بورشه"},
	{"volvo", "فولفو"},
	{"skoda", "سكودا"},
	{"chery", "شيري"},
	{"geely", "جيلي"},
	{"haval", "هافال"},
	{"mg", "إم جي"},
	{"byd", "بي واي دي"},
	{"other", "أخرى"},
}

var FuelTypes = []Option{
	{FuelPetrol, "بنزين"},
	{FuelDiesel, "ديزل"},
	{FuelHybrid, "هايبرد"},
	{FuelElectric, "كهربائي"},
	{FuelLPG, "غاز"},
}

var Transmissions = []Option{
	{TransmissionAutomatic, "أوتوماتيك"},
	{TransmissionManual, "عادي"},
}

var BodyTypes = []Option{
	{BodySedan, "سيدان"},
	{BodySUV, "دفع رباعي"},
	{BodyHatchback, "هاتشباك"},
	{BodyCoupe, "كوبيه"},
	{BodyPickup, "بيك أب"},
	{BodyVan, "فان"},
	{BodyWagon, "ستيشن"},
}

var Conditions = []Option{
	{ConditionNew, "جديدة"},
	{ConditionUsed, "مستعملة"},
	{ConditionCertified, "معتمدة"},
}

var Statuses = []Option{
	{StatusDraft, "مسودة"},
	{StatusPublished, "منشور"},
	{StatusSold, "مباع"},
}

var Colors = []Option{
	{"white", "أبيض"},
	{"black", "أسود"},
	{"silver", "فضي"},
	{"gray", "رمادي"},
	{"red", "أحمر"},
	{"blue", "أزرق"},
	{"green", "أخضر"},
	{"beige", "بيج"},
	{"brown", "بني"},
	{"gold", "ذهبي"},
	{"orange", "برتقالي"},
	{"yellow", "أصفر"},
	{"purple", "بنفسجي"},
	{"other", "أخرى"},
}

// Cities lists the Libyan cities listings can be placed in.
var Cities = []Option{
	{"tripoli", "طرابلس"},
	{"benghazi", "بنغازي"},
	{"misrata", "مصراتة"},
	{"zawiya", "الزاوية"},
	{"zliten", "زليتن"},
	{"khoms", "الخمس"},
	{"sabratha", "صبراتة"},
	{"zuwara", "زوارة"},
	{"gharyan", "غريان"},
	{"sirte", "سرت"},
	{"ajdabiya", "أجدابيا"},
	{"bayda", "البيضاء"},
	{"derna", "درنة"},
	{"tobruk", "طبرق"},
	{"sabha", "سبها"},
	{"other", "أخرى"},
}

var PriceRanges = []PriceRange{
	{"0-25000", "أقل من 25,000 د.ل", 0, 25000},
	{"25000-50000", "25,000 - 50,000 د.ل", 25000, 50000},
	{"50000-100000", "50,000 - 100,000 د.ل", 50000, 100000},
	{"100000-200000", "100,000 - 200,000 د.ل", 100000, 200000},
	{"200000+", "أكثر من 200,000 د.ل", 200000, 0},
}

// Label returns the label for value in options, or value itself if unknown.
func Label(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
