package models

// CatalogEntry is a hand-maintained selectable instrument with its chart
// color and grouping.
type CatalogEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Group  string `json:"group,omitempty"`
}

// IndexOptions are the selectable market indexes, grouped by region.
var IndexOptions = []CatalogEntry{
	{Symbol: "^GSPC", Name: "S&P 500", Color: "#9C27B0", Group: "US"},
	{Symbol: "^DJI", Name: "Dow Jones", Color: "#E91E63", Group: "US"},
	{Symbol: "^IXIC", Name: "NASDAQ", Color: "#00BCD4", Group: "US"},
	{Symbol: "^RUT", Name: "Russell 2000", Color: "#795548", Group: "US"},
	{Symbol: "^FTSE", Name: "FTSE 100", Color: "#3F51B5", Group: "EU"},
	{Symbol: "^GDAXI", Name: "DAX", Color: "#FF9800", Group: "EU"},
	{Symbol: "^FCHI", Name: "CAC 40", Color: "#009688", Group: "EU"},
	{Symbol: "^STOXX50E", Name: "Euro Stoxx 50", Color: "#8BC34A", Group: "EU"},
	{Symbol: "^N225", Name: "Nikkei 225", Color: "#F44336", Group: "Asia"},
	{Symbol: "^HSI", Name: "Hang Seng", Color: "#FF5722", Group: "Asia"},
	{Symbol: "000001.SS", Name: "Shanghai", Color: "#D32F2F", Group: "Asia"},
	{Symbol: "^AXJO", Name: "ASX 200", Color: "#1976D2", Group: "Asia"},
	{Symbol: "^KS11", Name: "KOSPI", Color: "#7B1FA2", Group: "Asia"},
	{Symbol: "^TWII", Name: "Taiwan", Color: "#C2185B", Group: "Asia"},
	{Symbol: "^BSESN", Name: "Sensex", Color: "#F57C00", Group: "Asia"},
	{Symbol: "^STI", Name: "Straits Times", Color: "#0288D1", Group: "Asia"},
	{Symbol: "^TA125.TA", Name: "Tel Aviv 125", Color: "#0D47A1", Group: "ME"},
	{Symbol: "^TASI.SR", Name: "Tadawul", Color: "#1B5E20", Group: "ME"},
}

// CryptoOptions are the selectable cryptocurrencies.
var CryptoOptions = []CatalogEntry{
	{Symbol: "BTC-USD", Name: "Bitcoin", Color: "#F7931A"},
	{Symbol: "ETH-USD", Name: "Ethereum", Color: "#627EEA"},
	{Symbol: "SOL-USD", Name: "Solana", Color: "#00FFA3"},
}

// BondOptions are treasury yield indexes and bond ETF proxies.
var BondOptions = []CatalogEntry{
	{Symbol: "^IRX", Name: "US 3M T-Bill", Color: "#1565C0", Group: "US"},
	{Symbol: "^FVX", Name: "US 5Y Treasury", Color: "#1976D2", Group: "US"},
	{Symbol: "^TNX", Name: "US 10Y Treasury", Color: "#1E88E5", Group: "US"},
	{Symbol: "^TYX", Name: "US 30Y Treasury", Color: "#2196F3", Group: "US"},
	{Symbol: "IGLS.L", Name: "UK Gilts ETF", Color: "#C62828", Group: "UK"},
	{Symbol: "IGLT.L", Name: "UK Long Gilts", Color: "#D32F2F", Group: "UK"},
	{Symbol: "IS0L.DE", Name: "Euro Govt Bond", Color: "#F57C00", Group: "EU"},
	{Symbol: "EUN4.DE", Name: "Euro Corp Bond", Color: "#FF9800", Group: "EU"},
}

// CommodityOptions are futures contracts grouped by category.
var CommodityOptions = []CatalogEntry{
	{Symbol: "GC=F", Name: "Gold", Color: "#FFD700", Group: "Metals"},
	{Symbol: "SI=F", Name: "Silver", Color: "#A0A0A0", Group: "Metals"},
	{Symbol: "PL=F", Name: "Platinum", Color: "#E5E4E2", Group: "Metals"},
	{Symbol: "PA=F", Name: "Palladium", Color: "#CED0DD", Group: "Metals"},
	{Symbol: "HG=F", Name: "Copper", Color: "#B87333", Group: "Metals"},
	{Symbol: "CL=F", Name: "Crude Oil (WTI)", Color: "#333333", Group: "Energy"},
	{Symbol: "BZ=F", Name: "Brent Crude", Color: "#4A4A4A", Group: "Energy"},
	{Symbol: "NG=F", Name: "Natural Gas", Color: "#87CEEB", Group: "Energy"},
	{Symbol: "RB=F", Name: "Gasoline", Color: "#DC143C", Group: "Energy"},
	{Symbol: "ZC=F", Name: "Corn", Color: "#F4D03F", Group: "Agri"},
	{Symbol: "ZW=F", Name: "Wheat", Color: "#D4AC0D", Group: "Agri"},
	{Symbol: "ZS=F", Name: "Soybeans", Color: "#7D6608", Group: "Agri"},
	{Symbol: "KC=F", Name: "Coffee", Color: "#6F4E37", Group: "Agri"},
	{Symbol: "CC=F", Name: "Cocoa", Color: "#3E2723", Group: "Agri"},
	{Symbol: "SB=F", Name: "Sugar", Color: "#FAFAFA", Group: "Agri"},
}

// StockColors are assigned to user-entered symbols in order.
var StockColors = []string{
	"#1A73E8", "#D93025", "#188038", "#FF5722", "#673AB7",
	"#00ACC1", "#F4511E", "#7CB342", "#5E35B1", "#FB8C00",
}

// IndexConstituents maps an index symbol to a representative sample of its
// largest members, for batch history scans.
var IndexConstituents = map[string][]string{
	"^GSPC":     {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B", "UNH", "JNJ", "JPM", "V", "PG", "XOM", "MA", "HD", "CVX", "MRK", "ABBV", "PEP"},
	"^DJI":      {"AAPL", "MSFT", "UNH", "GS", "HD", "MCD", "CAT", "AMGN", "V", "BA", "CRM", "HON", "TRV", "AXP", "JPM", "IBM", "JNJ", "WMT", "PG", "CVX"},
	"^IXIC":     {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AVGO", "COST", "PEP", "CSCO", "ADBE", "NFLX", "AMD", "CMCSA", "INTC", "INTU", "QCOM", "TXN", "AMGN"},
	"^RUT":      {"PLTR", "SOFI", "COIN", "DKNG", "RBLX", "CRWD", "SNOW", "NET", "DDOG", "ZS", "MDB", "OKTA", "ROKU", "SQ", "SHOP"},
	"^FTSE":     {"SHEL.L", "AZN.L", "HSBA.L", "ULVR.L", "BP.L", "RIO.L", "GSK.L", "DGE.L", "BATS.L", "REL.L"},
	"^GDAXI":    {"SAP.DE", "SIE.DE", "ALV.DE", "DTE.DE", "AIR.DE", "MBG.DE", "BMW.DE", "MUV2.DE", "BAS.DE", "BAYN.DE"},
	"^FCHI":     {"MC.PA", "OR.PA", "TTE.PA", "SAN.PA", "AI.PA", "AIR.PA", "SU.PA", "BN.PA", "CS.PA", "DG.PA"},
	"^STOXX50E": {"ASML.AS", "MC.PA", "SAP.DE", "TTE.PA", "SIE.DE", "OR.PA", "SAN.PA", "AIR.PA", "ALV.DE", "AI.PA"},
	"^N225":     {"7203.T", "6758.T", "9984.T", "8306.T", "6861.T", "7267.T", "4502.T", "6501.T", "7974.T", "9432.T"},
	"^HSI":      {"0700.HK", "9988.HK", "0941.HK", "1299.HK", "0005.HK", "3690.HK", "2318.HK", "9618.HK", "1398.HK", "2388.HK"},
}

// ScanCandidates is the default universe for the top-movers scanner.
var ScanCandidates = []string{
	"AAPL", "MSFT", "GOOG", "AMZN", "NVDA", "TSLA", "META", "NFLX", "AMD", "INTC",
	"JPM", "BAC", "GS", "V", "MA",
	"DIS", "NKE", "KO", "PEP", "WMT", "COST",
	"PLTR", "COIN", "MSTR", "RIOT", "MARA",
	"PFE", "LLY", "JNJ", "UNH",
	"F", "GM", "TM",
}
