package service

// минимальная страница: опрос /state раз в секунду
const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>signal bot</title></head>
<body>
<pre id="out">loading...</pre>
<p><a href="/export_signals">signals.csv</a></p>
<script>
async function tick() {
  try {
    const s = await (await fetch('/state')).json();
    const t = s.open_trade;
    document.getElementById('out').textContent = [
      'bot: ' + (s.bot_on ? 'ON' : 'OFF') + '  mode: ' + s.mode + '  round: ' + s.round_id,
      'history: ' + s.history.join(' '),
      'probs: W ' + s.probs.W + '%  R ' + s.probs.R + '%  B ' + s.probs.B + '%',
      'trade: ' + (t ? t.target + ' ' + t.phase + ' step ' + t.step + '/' + t.max_gales + ' (' + t.strategy + ')' : '-'),
      'cooldowns: white ' + s.cooldowns.white + '  color ' + s.cooldowns.color,
      '',
      ...s.signals.slice(0, 20).map(e => e.ts + '  ' + e.status + '  ' + e.label),
    ].join('\n');
  } catch (e) {}
}
setInterval(tick, 1000); tick();
</script>
</body>
</html>
`
