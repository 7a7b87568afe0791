// cmd/newsbot/lexicon.go
package main

// Bilingual (English + Vietnamese) word lists backing the NLP heuristics.
// These are deliberately naive keyword lists, not a model.

var stopWords = makeWordSet([]string{
    // English
    "a", "an", "the", "and", "but", "or", "as", "is", "are", "was", "were", "be", "being", "been",
    "have", "has", "had", "do", "does", "did", "will", "would", "shall", "should", "can", "could",
    "may", "might", "must", "for", "of", "to", "in", "on", "by", "at", "from", "with", "about",
    "against", "between", "into", "through", "during", "before", "after", "above", "below", "up",
    "down", "out", "off", "over", "under", "again", "further", "then", "once", "here", "there",
    "when", "where", "why", "how", "all", "any", "both", "each", "few", "more", "most", "other",
    "some", "such", "no", "nor", "not", "only", "own", "same", "so", "than", "too", "very", "just",
    "this", "that", "these", "those", "now", "ever", "also", "even", "still",

    // Vietnamese
    "và", "hoặc", "của", "là", "được", "trong", "có", "cho", "không", "về", "từ", "như", "đến",
    "một", "các", "với", "này", "đó", "những", "nhiều", "tại", "đã", "sẽ", "nên", "cần", "để",
    "rồi", "thì", "mà", "nếu", "vì", "khi", "nơi", "đang", "làm", "thế", "vẫn", "dù", "đây", "sau",
    "trên", "dưới", "nhưng", "lúc", "cùng", "thêm", "bởi", "vậy", "đâu", "sao",
})

var positiveWords = []string{
    // English
    "good", "great", "excellent", "positive", "bull", "bullish", "rally", "surge", "soar", "gain",
    "increase", "profit", "success", "successful", "up", "uptrend", "grow", "growth", "opportunity",
    "promising", "potential", "boost", "improve", "improvement", "optimistic", "overcome", "recover",
    "recovery", "rise", "rising", "support", "win", "breakthrough", "adoption", "advantage",

    // Vietnamese
    "tốt", "tuyệt vời", "xuất sắc", "tích cực", "tăng", "phục hồi", "lãi", "lợi nhuận", "thành công",
    "cơ hội", "tiềm năng", "cải thiện", "lạc quan", "vượt qua", "tăng trưởng", "hỗ trợ", "đột phá",
}

var negativeWords = []string{
    // English
    "bad", "poor", "negative", "bear", "bearish", "crash", "decline", "decrease", "dip", "down",
    "downtrend", "drop", "fall", "falling", "fear", "fud", "loss", "lose", "risk", "risky", "sell",
    "selling", "sold", "struggle", "tumble", "uncertainty", "unstable", "volatile", "vulnerability",
    "weak", "worry", "worrying", "worried", "concern", "concerning", "problem", "issue", "threat",

    // Vietnamese
    "tồi", "kém", "tiêu cực", "giảm", "sụp đổ", "khủng hoảng", "lỗ", "sợ hãi", "rủi ro", "bán",
    "bất ổn", "biến động", "yếu", "lo ngại", "vấn đề", "mối đe dọa", "bất lợi", "thất bại",
}

// categoryTriggers maps category names to their trigger keywords. Title
// occurrences of a trigger count double when scoring.
var categoryTriggers = map[string][]string{
    CategoryBitcoin: {
        "bitcoin", "btc", "satoshi", "nakamoto", "halving", "mining",
    },
    CategoryEthereum: {
        "ethereum", "eth", "vitalik", "buterin", "smart contract", "gas", "gwei",
    },
    CategoryAltcoins: {
        "altcoin", "litecoin", "cardano", "ada", "solana", "sol", "polkadot", "dot", "dogecoin", "doge",
    },
    CategoryDeFi: {
        "defi", "decentralized finance", "yield farming", "liquidity", "dex", "amm",
        "lending", "borrowing", "staking", "aave", "compound",
    },
    CategoryNFT: {
        "nft", "non-fungible", "collectible", "bored ape", "cryptopunk", "opensea", "metaverse",
    },
    CategoryRegulation: {
        "regulation", "law", "legal", "quy định", "pháp luật", "sec", "cftc", "government", "tax", "ban", "illegal",
    },
    CategoryBlockchain: {
        "blockchain", "distributed ledger", "consensus", "nodes", "protocol", "layer 1", "layer 2", "scaling",
    },
    CategoryTrading: {
        "trading", "trader", "exchange", "margin", "futures", "technical analysis", "chart",
        "position", "leverage", "long", "short",
    },
}

func makeWordSet(words []string) map[string]struct{} {
    set := make(map[string]struct{}, len(words))
    for _, w := range words {
        set[w] = struct{}{}
    }
    return set
}
