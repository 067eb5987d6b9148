package scraper

// Largest German cities by population.
var DefaultCities = []string{
	"Berlin", "Hamburg", "München", "Köln", "Frankfurt", "Stuttgart", "Düsseldorf",
	"Dortmund", "Essen", "Leipzig", "Bremen", "Dresden", "Hannover", "Nürnberg",
	"Duisburg", "Bochum", "Wuppertal", "Bielefeld", "Bonn", "Münster", "Karlsruhe",
	"Mannheim", "Augsburg", "Wiesbaden", "Gelsenkirchen", "Mönchengladbach",
	"Braunschweig", "Chemnitz", "Kiel", "Aachen", "Halle", "Magdeburg", "Freiburg",
	"Krefeld", "Lübeck", "Oberhausen", "Erfurt", "Mainz", "Rostock", "Kassel",
	"Hagen", "Potsdam", "Saarbrücken", "Hamm", "Mülheim", "Ludwigshafen",
	"Leverkusen", "Oldenburg", "Osnabrück", "Solingen", "Heidelberg", "Herne",
	"Neuss", "Darmstadt", "Paderborn", "Regensburg", "Ingolstadt", "Würzburg",
	"Fürth", "Wolfsburg", "Offenbach", "Ulm", "Heilbronn", "Pforzheim",
	"Göttingen", "Bottrop", "Trier", "Recklinghausen", "Reutlingen", "Bremerhaven",
	"Koblenz", "Bergisch Gladbach", "Jena", "Remscheid", "Erlangen", "Moers",
	"Siegen", "Hildesheim", "Salzgitter",
}

// Industry checkbox values of the search form.
var DefaultIndustries = []string{
	"Einzelhandel", "Ärzte", "Rechtsanwälte", "Immobilienmakler", "Bauunternehmen - Hochbau",
	"Gaststätten, Hotel- und Übernachtungsgewerbe", "Handwerksbetriebe", "Unternehmensberater",
	"Freiberufler", "Großhandel", "Maschinenbau", "Kfz-Handel", "Banken / Kreditinstitute / Bausparkassen",
	"Versicherungen", "Immobilienverwalter", "Steuerberater", "Wirtschaftsprüfer", "Import-/Exportunternehmen",
	"Softwareentwicklung", "Medien", "Agrarwirtschaft, Land- und Forstwirte", "Apotheken",
	"Zahnärzte", "Architekten", "Ingenieure", "Verlage", "Fotografen", "Bäcker / Konditor",
	"Friseure", "Elektrohandwerk", "Heilberufe", "Bildungseinrichtungen",
}

// Most common German surnames.
var DefaultSurnames = []string{
	"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner",
	"Becker", "Schulz", "Hoffmann", "Koch", "Richter", "Klein", "Wolf",
	"Schröder", "Neumann", "Schwarz", "Zimmermann", "Braun", "Krüger",
	"Hofmann", "Hartmann", "Lange", "Schmitt", "Werner", "Schmitz",
	"Krause", "Meier", "Lehmann", "Schmid", "Schulze", "Maier", "Köhler",
	"Herrmann", "König", "Walter", "Mayer", "Huber", "Kaiser", "Fuchs",
	"Peters", "Lang", "Scholz", "Möller", "Weiß", "Jung", "Hahn",
	"Schubert", "Schuster", "Winkler", "Berger", "Lorenz", "Ludwig",
}
