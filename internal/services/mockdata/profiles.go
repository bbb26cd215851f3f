package mockdata

// profileTable holds the static company summaries served in mock mode.
var profileTable = map[string]string{
	"AAPL":  "Apple Inc. designs, manufactures, and markets smartphones, personal computers, tablets, wearables, and accessories worldwide. The company offers iPhone, Mac, iPad, AirPods, Apple TV, Apple Watch, Beats products, and HomePod. It also provides AppleCare support and cloud services, and operates various platforms like the App Store, Apple Music, Apple Pay, and iCloud.",
	"MSFT":  "Microsoft Corporation develops and supports software, services, devices, and solutions worldwide. The company operates in three segments: Productivity and Business Processes, Intelligent Cloud, and More Personal Computing. It offers office, exchange, SharePoint, Microsoft Teams, Office 365 Security and Compliance, and Skype for Business.",
	"GOOGL": "Alphabet Inc. provides various products and platforms in the United States, Europe, the Middle East, Africa, the Asia-Pacific, Canada, and Latin America. It operates through Google Services, Google Cloud, and Other Bets segments. The Google Services segment offers products and services, including ads, Android, Chrome, hardware, Gmail, Google Drive, Google Maps, Google Photos, Google Play, Search, and YouTube.",
	"AMZN":  "Amazon.com, Inc. engages in the retail sale of consumer products and subscriptions in North America and internationally. The company operates through three segments: North America, International, and Amazon Web Services (AWS). It sells merchandise and content purchased for resale from third-party sellers through physical stores and online stores.",
	"PYPL":  "PayPal Holdings, Inc. operates a technology platform that enables digital payments on behalf of merchants and consumers worldwide. The company provides payment solutions under the PayPal, PayPal Credit, Braintree, Venmo, Xoom, Paydiant, and Hyperwallet products. Its platform allows consumers to send and receive payments in approximately 200 markets and in approximately 100 currencies.",
	"TSLA":  "Tesla, Inc. designs, develops, manufactures, leases, and sells electric vehicles, and energy generation and storage systems in the United States, China, and internationally. The company operates in two segments, Automotive, and Energy Generation and Storage. The Automotive segment offers electric vehicles, as well as sells automotive regulatory credits.",
	"JPM":   "JPMorgan Chase & Co. operates as a financial services company worldwide. It operates through four segments: Consumer & Community Banking, Corporate & Investment Bank, Commercial Banking, and Asset & Wealth Management. The company offers investment and treasury services, asset management, payments processing, and commercial banking services.",
	"NVDA":  "NVIDIA Corporation provides graphics, and compute and networking solutions in the United States, Taiwan, China, and internationally. The company's Graphics segment offers GeForce GPUs for gaming and PCs, the GeForce NOW game streaming service and related infrastructure, and solutions for gaming platforms; Quadro/NVIDIA RTX GPUs for enterprise workstation graphics.",
	"NFLX":  "Netflix, Inc. provides entertainment services. It offers TV series, documentaries, and feature films across various genres and languages. The company provides members the ability to receive streaming content through a host of internet-connected devices, including TVs, digital video players, television set-top boxes, and mobile devices.",
	"DIS":   "The Walt Disney Company, together with its subsidiaries, operates as an entertainment company worldwide. The company operates through two segments, Disney Media and Entertainment Distribution; and Disney Parks, Experiences and Products. It operates television networks, including ABC, Disney Channel, ESPN, Freeform, FX, and National Geographic.",
}
