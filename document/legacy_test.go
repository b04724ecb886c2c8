package document

import "testing"

const legacyProjectJSON = `{
  "metadados": {"titulo_gerado": "Guia", "estimativa_leitura_minutos": 3, "paleta_sugerida": "forest"},
  "paginas": [
    {"pagina_numero": 1, "layout_type": "capa_principal",
     "conteudo": {"titulo": "Guia", "autor": "Ana", "prompt_imagem": "forest, morning light"}},
    {"pagina_numero": 2, "layout_type": "destaque_numero",
     "conteudo": {"numero_grande": "87%", "prompt_fundo_abstrato": "waves", "custom_image_url": "https://img/x.png"}},
    {"pagina_numero": 3, "layout_type": "pricing_table",
     "conteudo": {"titulo": "Planos", "itens": [{"titulo_item": "Pro", "desc_item": "49| SSO , Audit log,,"}]}},
    {"pagina_numero": 8, "layout_type": "timeline", "locked": true,
     "conteudo": {"steps": [{"step_title": "Start", "step_desc": "Kickoff"}]}},
    {"pagina_numero": 9, "layout_type": "hologram", "conteudo": {}}
  ]
}`

func TestParseLegacy(t *testing.T) {
	data := []byte(legacyProjectJSON)
	if !IsLegacy(data) {
		t.Fatal("expected legacy detection")
	}
	if IsLegacy([]byte(sampleJSON)) {
		t.Fatal("current schema detected as legacy")
	}

	doc, err := ParseLegacy(data)
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	if doc.Metadata.GeneratedTitle != "Guia" || doc.Metadata.SuggestedPalette != "forest" {
		t.Fatalf("unexpected metadata %+v", doc.Metadata)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := []Tag{TagCover, TagStatHighlight, TagPricingTable, TagTimeline, Tag("hologram")}
	for i, tag := range want {
		if doc.Pages[i].Template != tag {
			t.Fatalf("page %d: got %q, want %q", i+1, doc.Pages[i].Template, tag)
		}
	}

	if doc.Pages[0].Content.Image.Prompt != "forest, morning light" || doc.Pages[0].Content.Author != "Ana" {
		t.Fatalf("cover content not mapped: %+v", doc.Pages[0].Content)
	}
	stat := doc.Pages[1].Content
	if stat.BackgroundImage.URL != "https://img/x.png" || stat.BackgroundImage.Prompt != "waves" {
		t.Fatalf("stat background not mapped: %+v", stat.BackgroundImage)
	}

	pr := doc.Pages[2].Content.Items[0].Pricing
	if pr == nil || pr.Price != "49" || len(pr.Features) != 2 || pr.Features[1] != "Audit log" {
		t.Fatalf("pricing not split: %+v", pr)
	}

	tl := doc.Pages[3]
	if !tl.Locked || tl.Index != 4 || tl.Content.Steps[0].Description != "Kickoff" {
		t.Fatalf("timeline not mapped: %+v", tl)
	}
}

func TestSplitPackedPricingWithoutFeatures(t *testing.T) {
	p := SplitPackedPricing("free")
	if p.Price != "free" || len(p.Features) != 0 {
		t.Fatalf("unexpected %+v", p)
	}
}
