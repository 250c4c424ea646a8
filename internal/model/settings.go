package model

// Settings is the upstream rate/price snapshot. Owned by the upstream,
// read-mostly here: refreshed periodically and after admin saves.
type Settings struct {
	StarRateUZS   int64                    `json:"star_rate_uzs"`
	PremiumPrices map[PremiumPackage]int64 `json:"premium_prices"`
	TONRate       float64                  `json:"ton_rate"`
	ReferralPrice int64                    `json:"referral_price"`
}

// SettingsField names one independently saved settings value, matching the
// upstream setdata.php type vocabulary.
type SettingsField string

const (
	FieldStarRate      SettingsField = "price"
	FieldPremium3M     SettingsField = "3oylik"
	FieldPremium6M     SettingsField = "6oylik"
	FieldPremium12M    SettingsField = "12oylik"
	FieldTONRate       SettingsField = "tonkurs"
	FieldReferralPrice SettingsField = "referal_price"
)

func (f SettingsField) Valid() bool {
	switch f {
	case FieldStarRate, FieldPremium3M, FieldPremium6M, FieldPremium12M, FieldTONRate, FieldReferralPrice:
		return true
	}
	return false
}
