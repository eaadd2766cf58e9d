// ABOUTME: Static fallback seed data when no OpenAI API key is available.
// ABOUTME: Fixtures modeled on Chilean fruit-farm records.

package seed

import "fmt"

func (g *Generator) generateStatic(numBarracks, numPlots int) *GeneratedData {
	return &GeneratedData{
		Barracks: generateStaticBarracks(numBarracks),
		Plots:    generateStaticPlots(numPlots),
	}
}

func generateStaticBarracks(count int) []BarracksData {
	templates := []BarracksData{
		{Barracks: "Cuartel Norte 1", Species: "Vid", Variety: "Cabernet Sauvignon", PhenologicalState: "Floración"},
		{Barracks: "Cuartel Norte 2", Species: "Vid", Variety: "Carmenère", PhenologicalState: "Cuaja"},
		{Barracks: "Cuartel Sur 1", Species: "Palto", Variety: "Hass", PhenologicalState: "Brotación"},
		{Barracks: "Cuartel Sur 2", Species: "Palto", Variety: "Fuerte", PhenologicalState: "Floración"},
		{Barracks: "Cuartel Oriente", Species: "Cerezo", Variety: "Lapins", PhenologicalState: "Pinta"},
		{Barracks: "Cuartel Poniente", Species: "Cerezo", Variety: "Santina", PhenologicalState: "Cosecha"},
		{Barracks: "Ladera Alta", Species: "Nogal", Variety: "Chandler", PhenologicalState: "Receso"},
		{Barracks: "Ladera Baja", Species: "Nogal", Variety: "Serr", PhenologicalState: "Brotación"},
		{Barracks: "Fondo de Valle", Species: "Manzano", Variety: "Gala", PhenologicalState: "Cuaja"},
		{Barracks: "Rinconada", Species: "Olivo", Variety: "Arbequina", PhenologicalState: "Floración"},
		{Barracks: "El Espino", Species: "Vid", Variety: "Sauvignon Blanc", PhenologicalState: "Pinta"},
		{Barracks: "Santa Rosa", Species: "Cerezo", Variety: "Regina", PhenologicalState: "Receso"},
	}

	result := make([]BarracksData, count)
	for i := 0; i < count; i++ {
		b := templates[i%len(templates)]
		if i >= len(templates) {
			b.Barracks = fmt.Sprintf("%s (%d)", b.Barracks, i/len(templates)+1)
		}
		result[i] = b
	}
	return result
}

func generateStaticPlots(count int) []PlotData {
	templates := []PlotData{
		{ClassificationZone: "Zona A", BarracksPaddockName: "Potrero 1", Organic: false, VarietySpecies: "Vid", Variety: "Cabernet Sauvignon", QualityType: "Exportación", TotalHa: 12.5, TotalPlants: 8300, SoilType: "Franco", Texture: "Media", SoilPh: 6.8, Pattern: "Paulsen 1103", PlantationYear: 2011, IrrigationType: "Goteo", IrrigationZone: "Sector riego 1"},
		{ClassificationZone: "Zona A", BarracksPaddockName: "Potrero 2", Organic: true, VarietySpecies: "Palto", Variety: "Hass", QualityType: "Premium", TotalHa: 8.2, TotalPlants: 3280, SoilType: "Franco arcilloso", Texture: "Fina", SoilPh: 6.2, Pattern: "Mexícola", PlantationYear: 2015, IrrigationType: "Goteo", IrrigationZone: "Sector riego 2"},
		{ClassificationZone: "Zona B", BarracksPaddockName: "Potrero 3", Organic: false, VarietySpecies: "Cerezo", Variety: "Lapins", QualityType: "Exportación", TotalHa: 15.0, TotalPlants: 9990, SoilType: "Franco", Texture: "Media", SoilPh: 6.5, Pattern: "Colt", PlantationYear: 2008, IrrigationType: "Goteo", IrrigationZone: "Sector riego 3"},
		{ClassificationZone: "Zona B", BarracksPaddockName: "Potrero 4", Organic: false, VarietySpecies: "Nogal", Variety: "Chandler", QualityType: "Exportación", TotalHa: 22.7, TotalPlants: 6810, SoilType: "Arenoso", Texture: "Gruesa", SoilPh: 7.1, Pattern: "Juglans regia", PlantationYear: 2005, IrrigationType: "Aspersión", IrrigationZone: "Sector riego 4"},
		{ClassificationZone: "Zona C", BarracksPaddockName: "Potrero 5", Organic: true, VarietySpecies: "Manzano", Variety: "Gala", QualityType: "Mercado interno", TotalHa: 6.4, TotalPlants: 7040, SoilType: "Franco arcilloso", Texture: "Fina", SoilPh: 6.0, Pattern: "MM-106", PlantationYear: 2018, IrrigationType: "Goteo", IrrigationZone: "Sector riego 5"},
		{ClassificationZone: "Zona C", BarracksPaddockName: "Potrero 6", Organic: false, VarietySpecies: "Olivo", Variety: "Arbequina", QualityType: "Premium", TotalHa: 30.1, TotalPlants: 15050, SoilType: "Arcilloso", Texture: "Fina", SoilPh: 7.6, Pattern: "Propio", PlantationYear: 2001, IrrigationType: "Surco", IrrigationZone: "Sector riego 6"},
		{ClassificationZone: "Zona D", BarracksPaddockName: "Potrero 7", Organic: false, VarietySpecies: "Vid", Variety: "Sauvignon Blanc", QualityType: "Exportación", TotalHa: 9.8, TotalPlants: 6530, SoilType: "Franco", Texture: "Media", SoilPh: 6.9, Pattern: "SO4", PlantationYear: 2013, IrrigationType: "Goteo", IrrigationZone: "Sector riego 7"},
		{ClassificationZone: "Zona D", BarracksPaddockName: "Potrero 8", Organic: true, VarietySpecies: "Cerezo", Variety: "Regina", QualityType: "Premium", TotalHa: 11.3, TotalPlants: 7530, SoilType: "Franco", Texture: "Media", SoilPh: 6.4, Pattern: "Gisela 6", PlantationYear: 2016, IrrigationType: "Goteo", IrrigationZone: "Sector riego 8"},
	}

	result := make([]PlotData, count)
	for i := 0; i < count; i++ {
		p := templates[i%len(templates)]
		if i >= len(templates) {
			p.BarracksPaddockName = fmt.Sprintf("Potrero %d", i+1)
		}
		result[i] = p
	}
	return result
}
