package knowledge

// Default returns a copy of the built-in knowledge base. It is imported into
// an empty store on first use.
func Default() *Document {
	doc := seedDocument
	doc.Symptoms = append([]SymptomDocument(nil), seedDocument.Symptoms...)
	doc.Majors = make([]MajorDocument, len(seedDocument.Majors))
	for i, m := range seedDocument.Majors {
		m.Rules = append([]RuleDocument(nil), m.Rules...)
		doc.Majors[i] = m
	}
	return &doc
}

var seedDocument = Document{
	Version: CurrentVersion,
	Symptoms: []SymptomDocument{
		{Code: 1, Info: "Saya senang mengerjakan soal matematika yang menantang"},
		{Code: 2, Info: "Saya tertarik melakukan percobaan di laboratorium"},
		{Code: 3, Info: "Saya suka mempelajari tubuh manusia, hewan, dan tumbuhan"},
		{Code: 4, Info: "Nilai fisika dan kimia saya di atas rata-rata kelas"},
		{Code: 5, Info: "Saya ingin bekerja di bidang kesehatan atau teknik"},
		{Code: 6, Info: "Saya senang mengikuti berita ekonomi dan politik"},
		{Code: 7, Info: "Saya tertarik pada sejarah dan perkembangan masyarakat"},
		{Code: 8, Info: "Saya suka berdiskusi dan berorganisasi"},
		{Code: 9, Info: "Saya ingin berwirausaha atau bekerja di bidang bisnis"},
		{Code: 10, Info: "Saya senang membaca karya sastra dan menulis cerita"},
		{Code: 11, Info: "Saya mudah mempelajari bahasa asing"},
		{Code: 12, Info: "Saya tertarik menjadi penerjemah, jurnalis, atau diplomat"},
		{Code: 13, Info: "Saya kesulitan memahami rumus dan perhitungan"},
	},
	Majors: []MajorDocument{
		{
			Code:        1,
			Name:        "IPA",
			Description: "Ilmu Pengetahuan Alam: matematika, fisika, kimia, dan biologi.",
			Solution:    "Perdalam matematika dan sains; ikuti olimpiade atau kegiatan laboratorium.",
			Notes:       "Kedokteran, teknik, farmasi, ilmu komputer, pertanian.",
			Rules: []RuleDocument{
				{Symptom: 1, ExpertCF: 0.8},
				{Symptom: 2, ExpertCF: 0.6},
				{Symptom: 3, ExpertCF: 0.6},
				{Symptom: 4, ExpertCF: 0.8},
				{Symptom: 5, ExpertCF: 0.7},
				{Symptom: 13, ExpertCF: -0.6},
			},
		},
		{
			Code:        2,
			Name:        "IPS",
			Description: "Ilmu Pengetahuan Sosial: ekonomi, sosiologi, sejarah, dan geografi.",
			Solution:    "Biasakan membaca berita, aktif di organisasi, dan berlatih menulis argumen.",
			Notes:       "Ekonomi, manajemen, hukum, akuntansi, ilmu politik.",
			Rules: []RuleDocument{
				{Symptom: 6, ExpertCF: 0.8},
				{Symptom: 7, ExpertCF: 0.6},
				{Symptom: 8, ExpertCF: 0.6},
				{Symptom: 9, ExpertCF: 0.7},
				{Symptom: 1, ExpertCF: 0.2},
			},
		},
		{
			Code:        3,
			Name:        "Bahasa",
			Description: "Bahasa dan Budaya: sastra Indonesia, bahasa asing, dan antropologi.",
			Solution:    "Perbanyak membaca dan menulis; ikuti kursus atau klub bahasa asing.",
			Notes:       "Sastra, linguistik, hubungan internasional, jurnalistik.",
			Rules: []RuleDocument{
				{Symptom: 10, ExpertCF: 0.8},
				{Symptom: 11, ExpertCF: 0.8},
				{Symptom: 12, ExpertCF: 0.7},
				{Symptom: 8, ExpertCF: 0.3},
			},
		},
	},
}
