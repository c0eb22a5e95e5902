package render

import (
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	textcatalog "golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the lookup key.
const (
	msgPatientWeight     = "Patient Weight"
	msgDosageTitle       = "%s dosage based on weight %s kg"
	msgTabletSubtitle    = "%s - Three-day treatment plan"
	msgSingleSubtitle    = "%s - Injectable Artesunate (Single Solvent)"
	msgDualSubtitle      = "%s - Injectable Artesunate (Dual Solvent)"
	msgRecommendedPlan   = "Recommended Medication Plan:"
	msgTabletCount       = "%s tablets"
	msgTakeDaily         = "Recommended dosage: Take daily %s tablets for 3 days"
	msgSelectStrength    = "Select Strength Combination"
	msgVialCount         = "%d vials"
	msgReconstitution    = "Reconstitution volume: %s ml"
	msgSolutionVolume    = "Solution Volume"
	msgBicarbonateArg    = "bicarbonate sodium and arginine"
	msgInjectionVolume   = "Injection Volume"
	msgFinalConc         = "Final Concentration: %s mg/ml"
	msgSameVolumeNote    = "Note: Same volume for IV and IM injection (%s mg/ml)"
	msgUseWithinHour     = "Must be used within 1 hour after reconstitution"
	msgAlternatives      = "Alternative Options: %s"
	msgBicarbonateVolume = "Bicarbonate Volume"
	msgSalineVolume      = "Saline Volume"
	msgBicarbonatePer    = "Bicarbonate: %s ml"
	msgSalinePer         = "Saline: %s ml"
	msgUseAllBicarbonate = "Use all content of bicarbonate ampoule"
	msgRemoveAir         = "Remove air from ampoule before saline injection"
	msgPatientInjection  = "Patient Final Injection"
	msgIVRouteDesc       = "Slow IV injection"
	msgIMRouteDesc       = "IM injection"
	msgCalculatedVolume  = "Calculated volume: %s ml"
	msgVolumeUnit        = "%s ml"
	msgOptimalSelection  = "Optimal Selection: %s"
	msgRouteIV           = "IV"
	msgRouteIM           = "IM"
	msgRouteBoth         = "IV / IM"
	msgImportantNotes    = "Important Notes"
	msgInstructionsLabel = "Medication Instructions:"
	msgPleaseFollow      = "Please strictly follow medical advice. Seek medical attention immediately if adverse reactions occur."
	msgWeightOutOfRange  = "Weight out of range"
	msgCheckWeight       = "Please check if weight input is correct (%s-%skg)"
	msgSelectProduct     = "Please select a product"
	msgUnknownProduct    = "Unknown product: %s"
	msgSelectWeight      = "Please select weight"
	msgInvalidWeight     = "Please enter the patient weight in kg"
	msgInvalidRoute      = "Please choose the IV or IM injection route"
	msgUnexpected        = "The dosage could not be calculated"
)

// translations holds the non-plural messages per language
var translations = map[string]map[string]string{
	"en": {
		msgPatientWeight:     "Patient Weight",
		msgDosageTitle:       "%s dosage based on weight %s kg",
		msgTabletSubtitle:    "%s - Three-day treatment plan",
		msgSingleSubtitle:    "%s - Injectable Artesunate (Single Solvent)",
		msgDualSubtitle:      "%s - Injectable Artesunate (Dual Solvent)",
		msgRecommendedPlan:   "Recommended Medication Plan:",
		msgTabletCount:       "%s tablets",
		msgTakeDaily:         "Recommended dosage: Take daily %s tablets for 3 days",
		msgSelectStrength:    "Select Strength Combination",
		msgReconstitution:    "Reconstitution volume: %s ml",
		msgSolutionVolume:    "Solution Volume",
		msgBicarbonateArg:    "bicarbonate sodium and arginine",
		msgInjectionVolume:   "Injection Volume",
		msgFinalConc:         "Final Concentration: %s mg/ml",
		msgSameVolumeNote:    "Note: Same volume for IV and IM injection (%s mg/ml)",
		msgUseWithinHour:     "Must be used within 1 hour after reconstitution",
		msgAlternatives:      "Alternative Options: %s",
		msgBicarbonateVolume: "Bicarbonate Volume",
		msgSalineVolume:      "Saline Volume",
		msgBicarbonatePer:    "Bicarbonate: %s ml",
		msgSalinePer:         "Saline: %s ml",
		msgUseAllBicarbonate: "Use all content of bicarbonate ampoule",
		msgRemoveAir:         "Remove air from ampoule before saline injection",
		msgPatientInjection:  "Patient Final Injection",
		msgIVRouteDesc:       "Slow IV injection",
		msgIMRouteDesc:       "IM injection",
		msgCalculatedVolume:  "Calculated volume: %s ml",
		msgVolumeUnit:        "%s ml",
		msgOptimalSelection:  "Optimal Selection: %s",
		msgRouteIV:           "IV",
		msgRouteIM:           "IM",
		msgRouteBoth:         "IV / IM",
		msgImportantNotes:    "Important Notes",
		msgInstructionsLabel: "Medication Instructions:",
		msgPleaseFollow:      "Please strictly follow medical advice. Seek medical attention immediately if adverse reactions occur.",
		msgWeightOutOfRange:  "Weight out of range",
		msgCheckWeight:       "Please check if weight input is correct (%s-%skg)",
		msgSelectProduct:     "Please select a product",
		msgUnknownProduct:    "Unknown product: %s",
		msgSelectWeight:      "Please select weight",
		msgInvalidWeight:     "Please enter the patient weight in kg",
		msgInvalidRoute:      "Please choose the IV or IM injection route",
		msgUnexpected:        "The dosage could not be calculated",
	},
	"zh": {
		msgPatientWeight:     "患者体重",
		msgDosageTitle:       "%s 根据体重 %s kg 的剂量",
		msgTabletSubtitle:    "%s - 三日疗程方案",
		msgSingleSubtitle:    "%s - 注射用青蒿琥酯（单溶媒）",
		msgDualSubtitle:      "%s - 注射用青蒿琥酯（双溶媒）",
		msgRecommendedPlan:   "推荐用药方案：",
		msgTabletCount:       "%s 片",
		msgTakeDaily:         "推荐剂量：每日服用 %s 片，连续 3 天",
		msgSelectStrength:    "选择规格组合",
		msgReconstitution:    "溶解体积：%s 毫升",
		msgSolutionVolume:    "溶液体积",
		msgBicarbonateArg:    "碳酸氢钠和精氨酸",
		msgInjectionVolume:   "注射体积",
		msgFinalConc:         "最终浓度：%s 毫克/毫升",
		msgSameVolumeNote:    "注意：静脉注射和肌肉注射体积相同（%s 毫克/毫升）",
		msgUseWithinHour:     "溶解后须在 1 小时内使用",
		msgAlternatives:      "替代方案：%s",
		msgBicarbonateVolume: "碳酸氢钠体积",
		msgSalineVolume:      "氯化钠体积",
		msgBicarbonatePer:    "碳酸氢钠：%s 毫升",
		msgSalinePer:         "氯化钠：%s 毫升",
		msgUseAllBicarbonate: "使用碳酸氢钠安瓿的全部内容物",
		msgRemoveAir:         "注入氯化钠前排出安瓿内空气",
		msgPatientInjection:  "患者最终注射量",
		msgIVRouteDesc:       "缓慢静脉注射",
		msgIMRouteDesc:       "肌肉注射",
		msgCalculatedVolume:  "计算体积：%s 毫升",
		msgVolumeUnit:        "%s 毫升",
		msgOptimalSelection:  "最优选择：%s",
		msgRouteIV:           "静脉注射",
		msgRouteIM:           "肌肉注射",
		msgRouteBoth:         "静脉 / 肌肉注射",
		msgImportantNotes:    "重要提示",
		msgInstructionsLabel: "用药说明：",
		msgPleaseFollow:      "请严格遵医嘱用药。如出现不良反应，请立即就医。",
		msgWeightOutOfRange:  "体重超出范围",
		msgCheckWeight:       "请检查体重输入是否正确（%s-%skg）",
		msgSelectProduct:     "请选择产品",
		msgUnknownProduct:    "未知产品：%s",
		msgSelectWeight:      "请选择体重",
		msgInvalidWeight:     "请输入患者体重（千克）",
		msgInvalidRoute:      "请选择静脉或肌肉注射途径",
		msgUnexpected:        "无法计算剂量",
	},
	"fr": {
		msgPatientWeight:     "Poids du patient",
		msgDosageTitle:       "Posologie de %s pour un poids de %s kg",
		msgTabletSubtitle:    "%s - Traitement de trois jours",
		msgSingleSubtitle:    "%s - Artésunate injectable (solvant unique)",
		msgDualSubtitle:      "%s - Artésunate injectable (double solvant)",
		msgRecommendedPlan:   "Schéma thérapeutique recommandé :",
		msgTabletCount:       "%s comprimés",
		msgTakeDaily:         "Posologie recommandée : prendre %s comprimés par jour pendant 3 jours",
		msgSelectStrength:    "Combinaison de dosages",
		msgReconstitution:    "Volume de reconstitution : %s ml",
		msgSolutionVolume:    "Volume de solution",
		msgBicarbonateArg:    "bicarbonate de sodium et arginine",
		msgInjectionVolume:   "Volume d'injection",
		msgFinalConc:         "Concentration finale : %s mg/ml",
		msgSameVolumeNote:    "Remarque : même volume en IV et en IM (%s mg/ml)",
		msgUseWithinHour:     "À utiliser dans l'heure suivant la reconstitution",
		msgAlternatives:      "Autres options : %s",
		msgBicarbonateVolume: "Volume de bicarbonate",
		msgSalineVolume:      "Volume de solution saline",
		msgBicarbonatePer:    "Bicarbonate : %s ml",
		msgSalinePer:         "Solution saline : %s ml",
		msgUseAllBicarbonate: "Utiliser tout le contenu de l'ampoule de bicarbonate",
		msgRemoveAir:         "Chasser l'air de l'ampoule avant d'injecter la solution saline",
		msgPatientInjection:  "Injection finale du patient",
		msgIVRouteDesc:       "Injection IV lente",
		msgIMRouteDesc:       "Injection IM",
		msgCalculatedVolume:  "Volume calculé : %s ml",
		msgVolumeUnit:        "%s ml",
		msgOptimalSelection:  "Sélection optimale : %s",
		msgRouteIV:           "IV",
		msgRouteIM:           "IM",
		msgRouteBoth:         "IV / IM",
		msgImportantNotes:    "Remarques importantes",
		msgInstructionsLabel: "Mode d'emploi :",
		msgPleaseFollow:      "Respectez strictement la prescription médicale. Consultez immédiatement un médecin en cas d'effets indésirables.",
		msgWeightOutOfRange:  "Poids hors limites",
		msgCheckWeight:       "Veuillez vérifier le poids saisi (%s-%skg)",
		msgSelectProduct:     "Veuillez sélectionner un produit",
		msgUnknownProduct:    "Produit inconnu : %s",
		msgSelectWeight:      "Veuillez sélectionner le poids",
		msgInvalidWeight:     "Veuillez saisir le poids du patient en kg",
		msgInvalidRoute:      "Veuillez choisir la voie IV ou IM",
		msgUnexpected:        "La posologie n'a pas pu être calculée",
	},
}

// vialCounts are plural-aware; Chinese has a single form
var vialCounts = map[string]textcatalog.Message{
	"en": plural.Selectf(1, "%d", "one", "%d vial", "other", "%d vials"),
	"zh": textcatalog.String("%d 瓶"),
	"fr": plural.Selectf(1, "%d", "one", "%d flacon", "other", "%d flacons"),
}

// buildCatalog registers every translation for the given languages
func buildCatalog(langs []string, fallback language.Tag) (*textcatalog.Builder, error) {
	b := textcatalog.NewBuilder(textcatalog.Fallback(fallback))

	for _, lang := range langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", lang, err)
		}

		messages, ok := translations[lang]
		if !ok {
			return nil, fmt.Errorf("no translations for language %q", lang)
		}
		for key, msg := range messages {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("failed to register %s message %q: %w", lang, key, err)
			}
		}

		counts, ok := vialCounts[lang]
		if !ok {
			return nil, fmt.Errorf("no vial count message for language %q", lang)
		}
		if err := b.Set(tag, msgVialCount, counts); err != nil {
			return nil, fmt.Errorf("failed to register %s plural message: %w", lang, err)
		}
	}

	return b, nil
}
